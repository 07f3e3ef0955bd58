package builder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/pkg/retry"
	"go.uber.org/zap/zaptest"
)

func testConfig(provider, url string) *config.Config {
	cfg := &config.Config{LLMProvider: provider}
	cfg.Pipeline.MaxRetries = 0
	cfg.Pipeline.ContextWindow = 3
	cfg.LLMConnectorCfg.Url = url
	cfg.LLMConnectorCfg.Token = "configured-token"
	cfg.LLMConnectorCfg.Model = "llama/test"
	cfg.LLMConnectorCfg.ChatEndpoint = "/chat/completions"
	cfg.LLMConnectorCfg.RequestTimeout = 5 * time.Second
	cfg.LLMConnectorCfg.Retry = retry.RetryConfig{Attempts: 1, Delay: time.Millisecond, MaxDelay: time.Millisecond}
	return cfg
}

func TestMockPipelineGeneratesPairs(t *testing.T) {
	f, err := newPipelineFactory(context.Background(), testConfig(config.ProviderMock, ""), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	defer f.Close()

	p, err := f.NewPipeline(context.Background(), entity.ProcessOptions{APIKey: "ignored"})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if p.Release != nil {
		t.Error("mock pipeline should not hold per-run resources")
	}

	pairs := p.Generator.Generate(context.Background(), "Go is a language. It has goroutines.", "")
	if len(pairs) == 0 {
		t.Fatal("mock backend produced no pairs")
	}
	for _, pair := range pairs {
		if pair.Metadata["source_type"] != "mock" {
			t.Errorf("source type = %v", pair.Metadata["source_type"])
		}
	}
}

func TestOpenAIPipelineUsesRunAPIKey(t *testing.T) {
	var (
		mu    sync.Mutex
		auths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auths = append(auths, r.Header.Get("Authorization"))
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Q1: What is Go?\nA1: A language."}},
			},
		})
	}))
	defer srv.Close()

	f, err := newPipelineFactory(context.Background(), testConfig(config.ProviderOpenAI, srv.URL), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	shared, err := f.NewPipeline(context.Background(), entity.ProcessOptions{})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	pairs := shared.Generator.Generate(context.Background(), "Go is a language.", "")
	if len(pairs) != 1 || pairs[0].Metadata["source_type"] != "openai_llama_test" {
		t.Fatalf("pairs = %+v", pairs)
	}

	own, err := f.NewPipeline(context.Background(), entity.ProcessOptions{APIKey: "run-key"})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	own.Generator.Generate(context.Background(), "Go is a language.", "")

	mu.Lock()
	defer mu.Unlock()
	if len(auths) != 2 {
		t.Fatalf("requests = %d, want 2", len(auths))
	}
	if auths[0] != "Bearer configured-token" {
		t.Errorf("shared backend auth = %q", auths[0])
	}
	if auths[1] != "Bearer run-key" {
		t.Errorf("per-run backend auth = %q", auths[1])
	}
}

func TestUnknownProvider(t *testing.T) {
	if _, err := newPipelineFactory(context.Background(), testConfig("bard", ""), zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
