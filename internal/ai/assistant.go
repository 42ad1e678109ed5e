package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/surveydash/internal/survey"
	"github.com/KaramelBytes/surveydash/internal/utils"
)

// Assistant answers free-form questions about the survey, optionally with a
// CSV preview of the first rows attached.
type Assistant struct {
	Runtime Runtime
	Model   string
	// Persona names the analyst in the system prompt.
	Persona string
	// SampleRows is the number of data rows in the preview.
	SampleRows int
	// MaxPreviewTokens caps the preview; 0 means unlimited.
	MaxPreviewTokens int
	Timeout          time.Duration
	MaxTokens        int
	Temperature      float64
}

// Prompt builds the conversation sent to the runtime. A nil table omits the preview.
func (a *Assistant) Prompt(question string, t *survey.Table) []Message {
	persona := a.Persona
	if persona == "" {
		persona = "Survey Analyst"
	}
	system := fmt.Sprintf("You are %s, a professional data analyst assistant. "+
		"Provide clear, actionable insights based on the user's request. "+
		"If a dataset is provided, summarize patterns, correlations, or key findings in bullet points. "+
		"Always be concise and label the insights as 'Findings' and 'Recommendations' when suitable.", persona)

	var b strings.Builder
	if t != nil {
		rows := a.SampleRows
		if rows <= 0 {
			rows = 10
		}
		var preview strings.Builder
		if err := t.WriteCSV(&preview, rows); err == nil {
			sample := preview.String()
			if a.MaxPreviewTokens > 0 {
				sample = utils.TruncateToTokenLimit(sample, a.MaxPreviewTokens)
			}
			fmt.Fprintf(&b, "Here is a preview of the dataset (first %d rows):\n%s\n", rows, sample)
		}
	}
	b.WriteString("User question:\n")
	b.WriteString(strings.TrimSpace(question))

	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: b.String()},
	}
}

// Ask sends the question and returns the answer text. Failures are returned both as
// the error and as readable text, so callers can print the text as the answer.
func (a *Assistant) Ask(ctx context.Context, question string, t *survey.Table) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("question cannot be empty")
	}
	if a.Runtime == nil {
		err := errors.New("no assistant runtime configured")
		return Describe(err), err
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	req := GenerateRequest{
		Model:       a.Model,
		Messages:    a.Prompt(question, t),
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}
	slog.Debug("assistant request", "model", a.Model, "prompt_tokens", utils.CountTokens(req.Messages[1].Content))
	resp, err := a.Runtime.Generate(ctx, req)
	if err != nil {
		return Describe(err), err
	}
	slog.Debug("assistant response", "request_id", resp.RequestID, "total_tokens", resp.Usage.TotalTokens)
	return resp.Text(), nil
}
