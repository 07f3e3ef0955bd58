package callback

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/entity"
	"github.com/futig/qagen/internal/integration/common"
	pkghttp "github.com/futig/qagen/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// EventHeader carries the event type so receivers can route without decoding.
const EventHeader = "X-Qagen-Event"

// Connector posts run outcome events to caller supplied URLs
type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	now       func() time.Time
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, "callback", logger),
		config:    cfg,
		now:       time.Now,
	}
}

// SendRunFinished reports a completed run. Delivery failures are logged only.
func (c *Connector) SendRunFinished(ctx context.Context, callbackURL string, run *entity.Run) {
	c.notify(ctx, callbackURL, run.ID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeRunFinished,
		Data:  run,
	})
}

// SendError reports a failed run. Delivery failures are logged only.
func (c *Connector) SendError(ctx context.Context, callbackURL string, runID string, message string, details map[string]any) {
	c.notify(ctx, callbackURL, runID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeError,
		Data: &entity.CallbackErrorData{
			Error: entity.CallbackErrorDetails{
				Message: message,
				Details: details,
			},
		},
	})
}

func (c *Connector) notify(ctx context.Context, callbackURL, runID string, event *entity.CallbackEvent) {
	if callbackURL == "" {
		return
	}
	if err := c.Send(ctx, callbackURL, runID, event); err != nil {
		ctxzap.Error(ctx, "callback delivery failed",
			zap.String("event_type", string(event.Event)),
			zap.Error(err),
		)
	}
}

// Send posts event to callbackURL, retrying network failures and 429/5xx answers.
func (c *Connector) Send(ctx context.Context, callbackURL string, runID string, event *entity.CallbackEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = c.now().UTC().Format(time.RFC3339)
	}

	log := ctxzap.Extract(ctx).With(
		zap.String("event_type", string(event.Event)),
		zap.String("callback_url", callbackURL),
		zap.String("run_id", runID),
	)
	log.Debug("sending callback event")

	reqOpts := []pkghttp.RequestOpt{
		pkghttp.WithURL(callbackURL),
		pkghttp.WithHeader("X-Request-ID", runID),
		pkghttp.WithHeader(EventHeader, string(event.Event)),
	}

	attempts := 0
	err := retry.Do(func() error {
		attempts++
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil, reqOpts...)
	}, append(c.config.Retry.ToRetryOptions(ctx),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("callback attempt failed", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)...)
	if err != nil {
		return fmt.Errorf("deliver %s event after %d attempts: %w", event.Event, attempts, err)
	}

	log.Info("callback delivered", zap.Int("attempts", attempts))
	return nil
}

func isRetryable(err error) bool {
	var netErr *pkghttp.NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *pkghttp.HTTPError
	return errors.As(err, &httpErr) && httpErr.Temporary()
}
