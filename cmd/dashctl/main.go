// Command dashctl renders the plant dashboard from the terminal: summaries,
// PDF/XLSX exports and a local server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"plantdash/internal/app"
	"plantdash/internal/charts"
	"plantdash/internal/config"
	"plantdash/internal/export"
	"plantdash/internal/logger"
	"plantdash/internal/server"
)

var (
	periodValue string
	format      string
	outputDir   string
	archive     bool
	comparison  bool
	port        string
	seed        uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dashctl",
		Short:         "Production and electricity cost dashboard tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&periodValue, "period", "p", "", "Month to show as YYYY-MM (default: START_PERIOD)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Random data seed (default: RANDOM_SEED)")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-plant production totals for a month",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
	summaryCmd.Flags().BoolVar(&comparison, "comparison", false, "Also print last year's totals")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard as a PDF or XLSX document",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "pdf", "Export format: pdf or xlsx")
	exportCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&archive, "archive", false, "Also archive the document in configured storage")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&port, "port", "", "Listen port (default: PORT)")

	rootCmd.AddCommand(summaryCmd, exportCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// setup loads configuration, applies flags and positions the dashboard
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	if seed != 0 {
		cfg.RandomSeed = seed
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if periodValue != "" && !a.Dashboard.SelectFromPicker(periodValue) {
		a.Close()
		return nil, fmt.Errorf("invalid period %q", periodValue)
	}
	return a, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}

	out := RenderSummary(snap.Label, snap.Summary, snap.NoData)
	if comparison && !snap.NoData {
		prior, err := a.Data.Daily(ctx, snap.Period)
		if err != nil {
			return err
		}
		out += "\n" + RenderPriorTotals(snap.Period.PriorYear().Label(), prior.Prior, a.Data.Plants())
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	if format != "pdf" && format != "xlsx" {
		return fmt.Errorf("invalid format: %s (must be pdf or xlsx)", format)
	}

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.Dashboard.Snapshot(ctx)
	if err != nil {
		return err
	}

	generated := time.Now()
	var doc export.Document
	if format == "pdf" {
		doc, err = export.PDF(ctx, snap, charts.NewPNGRenderer(), generated)
	} else {
		doc, err = export.Workbook(snap, generated)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(outputDir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("wrote "+path))

	for _, chartErr := range doc.ChartErrors {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("chart placeholder: "+chartErr.Error()))
	}

	if archive {
		stored, err := export.Archive(ctx, a.Storage, doc, generated)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("archived "+stored))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}

	srv := server.NewServer(a.Dashboard, a.Storage, config.GetVersion())
	defer srv.Close()

	addr := ":" + a.Config.Port
	if port != "" {
		addr = ":" + port
	}
	fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("serving on http://localhost"+addr))
	return http.ListenAndServe(addr, srv.SetupRoutes())
}
