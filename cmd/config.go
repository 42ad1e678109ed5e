package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/surveydash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set surveydash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "data_path: %s\n", cfg.DataPath)
		if cfg.SheetName != "" {
			fmt.Fprintf(w, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(w, "exclude_keywords: %s\n", strings.Join(cfg.ExcludeKeywords, ","))
		fmt.Fprintf(w, "collab_keywords: %s\n", strings.Join(cfg.CollabKeywords, ","))
		fmt.Fprintf(w, "packed_sample_rows: %d\n", cfg.PackedSampleRows)
		fmt.Fprintf(w, "packed_top_tokens: %d\n", cfg.PackedTopTokens)
		fmt.Fprintf(w, "theme: %s\n", cfg.Theme)
		fmt.Fprintf(w, "export_dir: %s\n", cfg.ExportDir)
		fmt.Fprintf(w, "include_charts: %t\n", cfg.IncludeCharts)
		fmt.Fprintf(w, "assistant_provider: %s\n", cfg.AssistantProvider)
		fmt.Fprintf(w, "assistant_model: %s\n", cfg.AssistantModel)
		fmt.Fprintf(w, "assistant_name: %s\n", cfg.AssistantName)
		fmt.Fprintf(w, "assistant_sample_rows: %d\n", cfg.AssistantSampleRows)
		if cfg.ModelsCatalog != "" {
			fmt.Fprintf(w, "models_catalog: %s\n", cfg.ModelsCatalog)
		}
		fmt.Fprintf(w, "gemini_api_key: %s\n", mask(cfg.GeminiAPIKey))
		fmt.Fprintf(w, "openrouter_api_key: %s\n", mask(cfg.OpenRouterAPIKey))
		fmt.Fprintf(w, "anthropic_api_key: %s\n", mask(cfg.AnthropicAPIKey))
		fmt.Fprintf(w, "openai_api_key: %s\n", mask(cfg.OpenAIAPIKey))
		fmt.Fprintf(w, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(w, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(w, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(w, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(w, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Example: `  surveydash config set data_path ./survey.xlsx
  surveydash config set assistant_provider ollama
  surveydash config set exclude_keywords name,email,phone`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reload so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
