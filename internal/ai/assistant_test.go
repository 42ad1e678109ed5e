package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/surveydash/internal/survey"
)

type fakeRuntime struct {
	got   GenerateRequest
	reply string
	err   error
	ctxOK bool
}

func (f *fakeRuntime) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	f.got = req
	_, f.ctxOK = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return textResponse("fake", f.reply, Usage{}), nil
}

func surveyTable() *survey.Table {
	return survey.NewTable(
		[]string{"Country", "Trained?"},
		[][]string{{"Kenya", "Yes"}, {"Ghana", "No"}, {"Togo", "Yes"}},
		survey.DefaultOptions(),
	)
}

func TestAssistantPromptWithPreview(t *testing.T) {
	a := &Assistant{Persona: "Survey Analyst", SampleRows: 2}
	msgs := a.Prompt("  Which country leads?  ", surveyTable())
	require.Len(t, msgs, 2)

	assert.Equal(t, RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "You are Survey Analyst")
	assert.Contains(t, msgs[0].Content, "'Findings' and 'Recommendations'")

	user := msgs[1].Content
	assert.Contains(t, user, "first 2 rows")
	assert.Contains(t, user, "Country,Trained?\nKenya,Yes\nGhana,No\n")
	assert.NotContains(t, user, "Togo")
	assert.True(t, strings.HasSuffix(user, "User question:\nWhich country leads?"))
}

func TestAssistantPromptWithoutData(t *testing.T) {
	msgs := (&Assistant{}).Prompt("hello", nil)
	assert.Contains(t, msgs[0].Content, "You are Survey Analyst")
	assert.Equal(t, "User question:\nhello", msgs[1].Content)
}

func TestAssistantPromptTruncatesPreview(t *testing.T) {
	a := &Assistant{SampleRows: 3, MaxPreviewTokens: 3}
	user := a.Prompt("q", surveyTable())[1].Content
	assert.NotContains(t, user, "Togo")
}

func TestAssistantAsk(t *testing.T) {
	rt := &fakeRuntime{reply: "  Findings: Kenya leads.  "}
	a := &Assistant{Runtime: rt, Model: "gemini-2.5-flash", Timeout: time.Second, MaxTokens: 64}
	text, err := a.Ask(context.Background(), "Which country leads?", surveyTable())
	require.NoError(t, err)
	assert.Equal(t, "Findings: Kenya leads.", text)
	assert.Equal(t, "gemini-2.5-flash", rt.got.Model)
	assert.Equal(t, 64, rt.got.MaxTokens)
	assert.True(t, rt.ctxOK, "timeout should bound the call")
}

func TestAssistantAskFailuresBecomeText(t *testing.T) {
	apiErr := &BadRequestError{APIError: &APIError{StatusCode: 400, Message: "invalid model"}}
	text, err := (&Assistant{Runtime: &fakeRuntime{err: apiErr}, Model: "m"}).Ask(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Equal(t, "API error: 400 - invalid model", text)

	netErr := errors.New("dial tcp: connection refused")
	text, err = (&Assistant{Runtime: &fakeRuntime{err: netErr}, Model: "m"}).Ask(context.Background(), "q", nil)
	require.Error(t, err)
	assert.Equal(t, "Error connecting to AI: dial tcp: connection refused", text)

	_, err = (&Assistant{Runtime: &fakeRuntime{}}).Ask(context.Background(), "   ", nil)
	assert.EqualError(t, err, "question cannot be empty")
}
