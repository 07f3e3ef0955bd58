package agent

import (
	"context"
	"strings"

	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/prompts"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	validMarker       = "valid: true"
	confidenceValid   = 1.0
	confidenceInvalid = 0.5
)

// Validator scores a batch of pairs with a single backend verdict.
type Validator struct {
	completer Completer
}

func NewValidator(completer Completer) *Validator {
	return &Validator{completer: completer}
}

// Validate returns the pairs in the same order with confidence set from the
// batch verdict: 1.0 when the feedback contains "VALID: true" in any case,
// 0.5 otherwise. On backend failure the input is returned unchanged.
func (v *Validator) Validate(ctx context.Context, pairs []entity.QAPair) []entity.QAPair {
	if len(pairs) == 0 {
		return pairs
	}

	batch := make([][2]string, len(pairs))
	for i, p := range pairs {
		batch[i] = [2]string{p.Question, p.Answer}
	}

	feedback, err := v.completer.Complete(ctx, prompts.Validation(batch))
	if err != nil {
		ctxzap.Error(ctx, "validation failed, keeping prior confidence",
			zap.Int("pair_count", len(pairs)),
			zap.Error(err),
		)
		return pairs
	}

	confidence := confidenceInvalid
	if strings.Contains(strings.ToLower(feedback), validMarker) {
		confidence = confidenceValid
	}

	validated := make([]entity.QAPair, len(pairs))
	for i, p := range pairs {
		p.Confidence = confidence
		validated[i] = p
	}

	ctxzap.Debug(ctx, "batch validated",
		zap.Int("pair_count", len(validated)),
		zap.Float64("confidence", confidence),
	)

	return validated
}
