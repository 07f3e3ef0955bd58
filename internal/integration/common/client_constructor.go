package common

import (
	"github.com/futig/qagen/internal/config"
	pkgHTTP "github.com/futig/qagen/pkg/http"
	"go.uber.org/zap"
)

const userAgentPrefix = "qagen/"

// NewBaseConnector builds the JSON connector shared by outbound integrations.
// service names the integration in the User-Agent and in log records.
func NewBaseConnector(cfg config.HTTPClientConfig, service string, logger *zap.Logger) *pkgHTTP.Connector {
	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:  logger.With(zap.String("service", service)),
			BaseURL: cfg.Url,
		},
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithTLSHandshakeTimeout(cfg.TLSHandshakeTimeout),
		pkgHTTP.WithMaxIdleConns(cfg.MaxIdleConns),
		pkgHTTP.WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost),
		pkgHTTP.WithUserAgent(userAgentPrefix+service),
		pkgHTTP.WithAuthToken(cfg.Token),
		pkgHTTP.WithRequestLogging(),
	)
}
