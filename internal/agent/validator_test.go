package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/futig/qagen/internal/entity"
)

func samplePairs() []entity.QAPair {
	return []entity.QAPair{
		entity.NewQAPair("q1", "a1", "test"),
		entity.NewQAPair("q2", "a2", "test"),
		entity.NewQAPair("q3", "a3", "test"),
	}
}

func TestValidator_Verdicts(t *testing.T) {
	tests := []struct {
		name     string
		feedback string
		want     float64
	}{
		{"exact marker", "VALID: true\nFEEDBACK: none", 1.0},
		{"lower case", "valid: true", 1.0},
		{"embedded in text", "Overall the pairs look fine (Valid: TRUE), minor nits.", 1.0},
		{"negative verdict", "VALID: false\nFEEDBACK: answers are vague", 0.5},
		{"no marker", "Looks good to me.", 0.5},
		{"marker without space", "VALID:true", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newScripted(step{text: tt.feedback})
			in := samplePairs()

			got := NewValidator(c).Validate(context.Background(), in)

			if len(got) != len(in) {
				t.Fatalf("got %d pairs, want %d", len(got), len(in))
			}
			for i, p := range got {
				if p.Confidence != tt.want {
					t.Errorf("pair %d confidence = %v, want %v", i, p.Confidence, tt.want)
				}
				if p.Question != in[i].Question {
					t.Errorf("pair %d reordered", i)
				}
			}
		})
	}
}

func TestValidator_SingleBatchRequest(t *testing.T) {
	c := newScripted(step{text: "VALID: true"})

	NewValidator(c).Validate(context.Background(), samplePairs())

	calls := c.calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want one per batch", len(calls))
	}
	if !strings.Contains(calls[0], "Q: q1\nA: a1\nQ: q2\nA: a2\nQ: q3\nA: a3") {
		t.Errorf("batch not rendered as Q/A lines: %q", calls[0])
	}
}

func TestValidator_BackendFailureKeepsPairs(t *testing.T) {
	c := newScripted(step{err: errBackendDown})
	in := samplePairs()
	in[1].Confidence = 0.7

	got := NewValidator(c).Validate(context.Background(), in)

	if len(got) != len(in) {
		t.Fatalf("got %d pairs, want %d", len(got), len(in))
	}
	want := []float64{1.0, 0.7, 1.0}
	for i, p := range got {
		if p.Confidence != want[i] {
			t.Errorf("pair %d confidence = %v, want %v", i, p.Confidence, want[i])
		}
	}
}

func TestValidator_DoesNotMutateInput(t *testing.T) {
	c := newScripted(step{text: "VALID: false"})
	in := samplePairs()

	NewValidator(c).Validate(context.Background(), in)

	for i, p := range in {
		if p.Confidence != entity.DefaultConfidence {
			t.Errorf("input pair %d mutated: %v", i, p.Confidence)
		}
	}
}

func TestValidator_EmptyBatchSkipsBackend(t *testing.T) {
	c := newScripted(step{text: "VALID: true"})

	got := NewValidator(c).Validate(context.Background(), []entity.QAPair{})

	if len(got) != 0 {
		t.Fatalf("got %d pairs", len(got))
	}
	if n := len(c.calls()); n != 0 {
		t.Fatalf("got %d calls for an empty batch", n)
	}
}
