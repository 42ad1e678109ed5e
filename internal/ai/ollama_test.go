package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func ollamaTestClient(host string, retries int) *OllamaClient {
	return NewOllamaClient(RuntimeConfig{Host: host, HTTPTimeout: 2 * time.Second, RetryMax: retries, BaseDelay: 5 * time.Millisecond})
}

func TestOllamaGenerateSuccess(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":           map[string]any{"role": "assistant", "content": "hello from ollama"},
			"prompt_eval_count": 12,
			"eval_count":        4,
			"done":              true,
		})
	}))
	defer srv.Close()

	c := ollamaTestClient(srv.URL, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Generate(ctx, GenerateRequest{Model: "llama3.1:8b-instruct", Messages: []Message{{Role: RoleUser, Content: "hi"}}, MaxTokens: 16})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Text() != "hello from ollama" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.RequestID == "" {
		t.Fatalf("expected simulated request id")
	}
	if resp.Usage.TotalTokens != 16 {
		t.Fatalf("expected 16 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestOllamaGenerateForwardsMessagesAndOptions(t *testing.T) {
	var captured ollamaChatRequest
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"role": "assistant", "content": "response"}})
	}))
	defer srv.Close()

	messages := []Message{
		{Role: RoleSystem, Content: "You are a survey analyst"},
		{Role: RoleUser, Content: "Hello"},
	}
	_, err := ollamaTestClient(srv.URL, 1).Generate(context.Background(), GenerateRequest{Model: "llama3.1:8b-instruct", Messages: messages, MaxTokens: 32, Temperature: 0.2})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != RoleSystem || captured.Messages[1].Content != "Hello" {
		t.Fatalf("messages not preserved: %+v", captured.Messages)
	}
	if captured.Stream {
		t.Fatalf("expected non-streaming request")
	}
	if captured.Options["num_predict"] != float64(32) {
		t.Fatalf("expected num_predict 32, got %v", captured.Options["num_predict"])
	}
}

func TestOllamaRetriesServerError(t *testing.T) {
	var calls int32
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "loading model"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"role": "assistant", "content": "ready"}})
	}))
	defer srv.Close()

	resp, err := ollamaTestClient(srv.URL, 2).Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Text() != "ready" || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected success on second attempt, got %q after %d calls", resp.Text(), calls)
	}
}

func TestOllamaGenerateErrors(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "model 'nope' not found"})
	}))
	defer srv.Close()

	_, err := ollamaTestClient(srv.URL, 1).Generate(context.Background(), GenerateRequest{Model: "nope", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var nf *ModelNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ModelNotFoundError, got %T (%v)", err, err)
	}
	if nf.Message != "model 'nope' not found" {
		t.Fatalf("unexpected message: %q", nf.Message)
	}

	_, err = ollamaTestClient(srv.URL, 1).Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{}})
	if err == nil || err.Error() != "messages cannot be empty" {
		t.Fatalf("expected 'messages cannot be empty' error, got: %v", err)
	}
}

func TestOllamaUnreachable(t *testing.T) {
	srv := newIPv4Server(t, http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := ollamaTestClient(url, 1).Generate(context.Background(), GenerateRequest{Model: "m", Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	var ue *UnreachableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnreachableError, got %T (%v)", err, err)
	}
	if got := Describe(err); !strings.HasPrefix(got, "Error connecting to AI: ") {
		t.Fatalf("unexpected description: %q", got)
	}
}
