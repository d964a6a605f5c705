package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// ExportPath returns the storage path of an export file.
// Format: exports/YYYY/MM/DD/{filename}
func ExportPath(filename string, generated time.Time) string {
	return fmt.Sprintf("exports/%04d/%02d/%02d/%s",
		generated.Year(), generated.Month(), generated.Day(), filename)
}

// PreferencesPath returns the storage path of a preferences document
func PreferencesPath(key string) string {
	return "preferences/" + key + ".json"
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".md":
		return "text/markdown"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
