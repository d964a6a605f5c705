// Package export renders dashboard snapshots as downloadable documents.
package export

import (
	"context"
	"fmt"
	"time"

	"plantdash/internal/period"
	"plantdash/internal/storage"
)

// Document is a generated export
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	// ChartErrors lists charts that were replaced by a placeholder
	ChartErrors []error
}

// Filename encodes the active month and the generation time:
// Dashboard_{M}-{YYYY}_Download{YYYYMMDD}-{HHMM}.{ext}
func Filename(p period.Period, generated time.Time, ext string) string {
	return fmt.Sprintf("Dashboard_%d-%d_Download%s.%s", p.Month, p.Year, generated.Format("20060102-1504"), ext)
}

// Archive stores a document under the exports prefix and returns its path
func Archive(ctx context.Context, client storage.StorageClient, doc Document, generated time.Time) (string, error) {
	path := storage.ExportPath(doc.Filename, generated)
	if err := client.StoreFile(ctx, path, doc.Data); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", doc.Filename, err)
	}
	return path, nil
}
