package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/parser"
	"github.com/futig/qagen/internal/prompts"
	"go.uber.org/zap"
)

func testConfig(url string) config.LLMConnectorConfig {
	temp := 0.3
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout: 2 * time.Second,
			Token:          "token",
			Url:            url,
		},
		Model:        "llama-3.1-70b-versatile",
		ChatEndpoint: "/chat/completions",
		Temperature:  &temp,
	}
}

func TestConnector_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Errorf("missing bearer token")
		}

		var req entity.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "llama-3.1-70b-versatile" || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("request = %+v", req)
		}
		if req.Temperature == nil || *req.Temperature != 0.3 {
			t.Errorf("temperature = %v", req.Temperature)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Q1: a?\nA1: b"}}]}`))
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL), zap.NewNop())
	got, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Q1: a?\nA1: b" {
		t.Errorf("got %q", got)
	}
	if c.SourceType() != "openai_llama-3.1-70b-versatile" {
		t.Errorf("SourceType() = %q", c.SourceType())
	}
}

func TestConnector_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cfg := testConfig(srv.URL)
			cfg.RequestTimeout = 100 * time.Millisecond

			_, err := NewConnector(cfg, zap.NewNop()).Complete(context.Background(), "prompt")
			if !errors.Is(err, entity.ErrBackend) {
				t.Errorf("expected ErrBackend, got %v", err)
			}
		})
	}
}

func TestMockConnector_Generation(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	chunk := "Go is a language. It has goroutines! Channels connect them? Fourth sentence."

	raw, err := m.Complete(context.Background(), prompts.QAGeneration(chunk, ""))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	pairs := parser.New(m.SourceType()).Parse(raw)
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want 3:\n%s", len(pairs), raw)
	}
	if pairs[0].Answer != "Go is a language" {
		t.Errorf("first answer = %q", pairs[0].Answer)
	}
}

func TestMockConnector_ValidationAndSummary(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	verdict, _ := m.Complete(ctx, prompts.Validation([][2]string{{"q", "a"}}))
	if verdict[:11] != "VALID: true" {
		t.Errorf("verdict = %q", verdict)
	}

	summary, _ := m.Complete(ctx, prompts.ChunkSummary("one two three four five six seven eight nine ten eleven twelve thirteen"))
	if summary != "one two three four five six seven eight nine ten eleven twelve" {
		t.Errorf("summary = %q", summary)
	}
}

func TestMockConnector_EmptyChunk(t *testing.T) {
	raw, err := NewMockConnector(zap.NewNop()).Complete(context.Background(), prompts.QAGeneration("...", ""))
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if raw != "" {
		t.Errorf("raw = %q", raw)
	}
}
