package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/surveydash/internal/chart"
	"github.com/KaramelBytes/surveydash/internal/report"
)

var (
	expOut      string
	expFormat   string
	expNoCharts bool
	expCountry  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full report (every question and metric) to disk",
	Example: `  surveydash export
  surveydash export --country Kenya --format json --out ./reports/kenya`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		doc, err := s.Report(expCountry)
		if err != nil {
			return err
		}
		theme, err := chart.ThemeByName(cfg.Theme)
		if err != nil {
			return err
		}
		doc.Theme = theme.Name
		var renderer *chart.Renderer
		if cfg.IncludeCharts && !expNoCharts {
			renderer = chart.NewRenderer(theme)
		}
		ex, err := report.NewExporter(expFormat, renderer)
		if err != nil {
			return err
		}
		dir := expOut
		if dir == "" {
			dir = cfg.ExportDir
		}
		if dir == "" {
			dir = "reports"
		}
		path, err := ex.Export(doc, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d sections to %s\n", len(doc.Sections), path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOut, "out", "o", "", "output directory (default: export_dir from config)")
	exportCmd.Flags().StringVarP(&expFormat, "format", "f", "markdown", "report format: markdown|json")
	exportCmd.Flags().BoolVar(&expNoCharts, "no-charts", false, "skip chart images")
	exportCmd.Flags().StringVarP(&expCountry, "country", "c", "All", "country to filter by")
}
