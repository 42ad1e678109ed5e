package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/surveydash/internal/chart"
	"github.com/KaramelBytes/surveydash/internal/report"
	"github.com/KaramelBytes/surveydash/internal/utils"
)

var (
	sumCountry  string
	sumChartDir string
	gradMetric  string
	gradYear    string
	gradTrend   bool
)

var yesnoCmd = &cobra.Command{
	Use:   "yesno <question|#>",
	Short: "Summarise a yes/no question",
	Example: `  surveydash yesno 1
  surveydash yesno "Trained?" --country Kenya`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		sec, err := s.YesNo(args[0], sumCountry)
		if err != nil {
			return err
		}
		return printSections(cmd, sec)
	},
}

var ratingCmd = &cobra.Command{
	Use:   "rating <question|#>",
	Short: "Summarise a 1-5 rating question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		sec, err := s.Rating(args[0], sumCountry)
		if err != nil {
			return err
		}
		return printSections(cmd, sec)
	},
}

var collabCmd = &cobra.Command{
	Use:   "collab <option|#>",
	Short: "Count respondents selecting a collaboration option, by country",
	Long: `Counts, per country, the respondents who selected a collaboration option.
Collaboration is always reported network-wide; an option that matches no known
label is searched for as free text in every answer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		sec, err := s.Collaboration(args[0])
		if err != nil {
			return err
		}
		return printSections(cmd, sec)
	},
}

var graduatesCmd = &cobra.Command{
	Use:   "graduates",
	Short: "Summarise graduate outcomes by gender and country",
	Example: `  surveydash graduates --metric placed --year 2023
  surveydash graduates --metric self-employed --country Ghana --trend`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		secs, err := s.Graduates(gradMetric, gradYear, sumCountry, gradTrend)
		if err != nil {
			return err
		}
		return printSections(cmd, secs...)
	},
}

// printSections renders sections to the terminal, saving their charts first
// when --charts is set.
func printSections(cmd *cobra.Command, secs ...report.Section) error {
	if sumChartDir != "" {
		theme, err := chart.ThemeByName(cfg.Theme)
		if err != nil {
			return err
		}
		r := chart.NewRenderer(theme)
		for i := range secs {
			if secs[i].Chart == nil {
				continue
			}
			path := filepath.Join(sumChartDir, fmt.Sprintf("%02d-%s.png", i+1, utils.Slug(secs[i].Title, 40)))
			if err := r.SavePNG(path, *secs[i].Chart); err != nil {
				return fmt.Errorf("save chart: %w", err)
			}
			secs[i].ChartFile = path
		}
	}
	out := report.NewTerminal(cmd.OutOrStdout())
	for _, sec := range secs {
		out.Section(sec)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{yesnoCmd, ratingCmd, collabCmd, graduatesCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVar(&sumChartDir, "charts", "", "directory to save chart PNGs into")
	}
	for _, c := range []*cobra.Command{yesnoCmd, ratingCmd, graduatesCmd} {
		c.Flags().StringVarP(&sumCountry, "country", "c", "All", "country to filter by")
	}
	graduatesCmd.Flags().StringVarP(&gradMetric, "metric", "m", "placed", "metric: placed|employed|self-employed")
	graduatesCmd.Flags().StringVarP(&gradYear, "year", "y", "", "reporting year (default: newest in the data)")
	graduatesCmd.Flags().BoolVar(&gradTrend, "trend", false, "add a total-graduates trend across years")
}
