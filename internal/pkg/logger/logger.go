package logger

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields returns ctx with fields appended to its logger
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction tags the context logger with the operation being served
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithRun tags the context logger with the run being processed
func WithRun(ctx context.Context, runID, filename string) context.Context {
	return AddFields(ctx,
		zap.String("run_id", runID),
		zap.String("filename", filename),
	)
}
