package prompts

import (
	"strings"
	"testing"
)

func TestQAGeneration_ContextBlock(t *testing.T) {
	without := QAGeneration("some text", "")
	if strings.Contains(without, "Previous Context:") {
		t.Error("empty context must not render the context block")
	}

	with := QAGeneration("some text", "earlier summary")
	if !strings.Contains(with, "Previous Context:\nearlier summary") {
		t.Error("context block missing")
	}
	if !strings.Contains(with, "Content to process:\nsome text") {
		t.Error("chunk missing")
	}
}

func TestValidation_Layout(t *testing.T) {
	got := Validation([][2]string{{"q1", "a1"}, {"q2", "a2"}})
	if !strings.Contains(got, "Q: q1\nA: a1\nQ: q2\nA: a2") {
		t.Errorf("pairs not rendered as alternating lines:\n%s", got)
	}
	if !IsValidation(got) {
		t.Error("IsValidation() = false")
	}
}

func TestPromptKinds(t *testing.T) {
	gen := QAGeneration("c", "")
	rec := ErrorRecovery("c", "")
	sum := ChunkSummary("c")

	if IsErrorRecovery(gen) || !IsErrorRecovery(rec) {
		t.Error("IsErrorRecovery misclassifies prompts")
	}
	if IsChunkSummary(gen) || !IsChunkSummary(sum) {
		t.Error("IsChunkSummary misclassifies prompts")
	}
}

func TestExtractChunk(t *testing.T) {
	chunk := "Line one.\nLine two: with colon."

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"generation", QAGeneration(chunk, ""), chunk},
		{"generation with context", QAGeneration(chunk, "ctx"), chunk},
		{"recovery", ErrorRecovery(chunk, ""), chunk},
		{"recovery with context", ErrorRecovery(chunk, "ctx"), chunk},
		{"summary", ChunkSummary(chunk), chunk},
		{"validation", Validation([][2]string{{"q", "a"}}), ""},
		{"unknown", "hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractChunk(tt.prompt); got != tt.want {
				t.Errorf("ExtractChunk() = %q, want %q", got, tt.want)
			}
		})
	}
}
