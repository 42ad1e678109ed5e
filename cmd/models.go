package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/surveydash/internal/ai"
	"github.com/KaramelBytes/surveydash/internal/report"
)

var (
	modelsProvider string
	modelsFile     string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known assistant models",
	Example: `  surveydash models
  surveydash models --provider ollama
  surveydash models --file ./models.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if modelsFile != "" {
			m, err := ai.LoadCatalogFromJSON(modelsFile)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			ai.MergeCatalog(m)
		}
		provider := ""
		if modelsProvider != "" {
			p, err := ai.NormalizeProvider(modelsProvider)
			if err != nil {
				return err
			}
			provider = p
		}
		list := ai.Models(provider)
		rows := make([][]string, 0, len(list))
		for _, m := range list {
			def := ""
			if ai.DefaultModel(m.Provider) == m.Name {
				def = "✓"
			}
			rows = append(rows, []string{m.Provider, m.Name, strconv.Itoa(m.ContextTokens), def})
		}
		report.NewTerminal(cmd.OutOrStdout()).Table([]string{"Provider", "Model", "Context", "Default"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVarP(&modelsProvider, "provider", "p", "", "only list models of this provider")
	modelsCmd.Flags().StringVar(&modelsFile, "file", "", "merge extra models from a JSON catalog first")
}
