package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/surveydash/internal/ai"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

var (
	askProvider string
	askModel    string
	askNoData   bool
	askRows     int
	askMaxTok   int
	askTemp     float64
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI assistant about the survey data",
	Long: `Sends a free-form question to the configured assistant. Unless --no-data is
set, the first rows of the survey are attached as a CSV preview. Provider
failures are printed as the answer instead of aborting.`,
	Example: `  surveydash ask "Which countries report the lowest training satisfaction?"
  surveydash ask --provider ollama --model llama3.1:8b-instruct "Summarise the data"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return errors.New("question cannot be empty")
		}
		provider := askProvider
		if provider == "" {
			provider = cfg.AssistantProvider
		}
		provider, err := ai.NormalizeProvider(provider)
		if err != nil {
			return err
		}
		model := askModel
		if model == "" {
			if p, _ := ai.NormalizeProvider(cfg.AssistantProvider); p == provider && cfg.AssistantModel != "" {
				model = cfg.AssistantModel
			} else {
				model = ai.DefaultModel(provider)
			}
		}

		var table *survey.Table
		if !askNoData {
			s, err := openSession()
			if err != nil {
				return err
			}
			table = s.Table
		}

		rt, err := ai.NewRuntime(cmd.Context(), provider, runtimeConfig(provider))
		if err != nil {
			if errors.Is(err, ai.ErrMissingAPIKey) {
				return fmt.Errorf("%w: set %s_api_key with 'surveydash config set' or the provider's environment variable", err, provider)
			}
			return err
		}
		a := &ai.Assistant{
			Runtime:     rt,
			Model:       model,
			Persona:     cfg.AssistantName,
			SampleRows:  cfg.AssistantSampleRows,
			Timeout:     time.Duration(cfg.HTTPTimeoutSec) * time.Second,
			MaxTokens:   askMaxTok,
			Temperature: askTemp,
		}
		if askRows > 0 {
			a.SampleRows = askRows
		}
		if mi, ok := ai.LookupModel(model); ok && mi.ContextTokens > 0 {
			// leave room for the instructions and the answer
			a.MaxPreviewTokens = mi.ContextTokens / 2
		}
		answer, err := a.Ask(cmd.Context(), question, table)
		if answer == "" && err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

// runtimeConfig maps the loaded configuration onto runtime settings for provider.
func runtimeConfig(provider string) ai.RuntimeConfig {
	return ai.RuntimeConfig{
		HTTPTimeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		RetryMax:    cfg.RetryMaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond,
		APIKey:      cfg.APIKey(provider),
		Host:        cfg.OllamaHost,
	}
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askProvider, "provider", "p", "", "assistant provider: gemini|openrouter|ollama|anthropic|openai (default from config)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "model name (default from config or the provider default)")
	askCmd.Flags().BoolVar(&askNoData, "no-data", false, "do not attach a data preview")
	askCmd.Flags().IntVar(&askRows, "rows", 0, "rows in the data preview (default from config)")
	askCmd.Flags().IntVar(&askMaxTok, "max-tokens", 0, "maximum answer tokens (0 = provider default)")
	askCmd.Flags().Float64Var(&askTemp, "temperature", 0.7, "sampling temperature")
}
