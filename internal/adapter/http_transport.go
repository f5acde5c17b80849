package adapter

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"couples-sync/internal/config"
	"couples-sync/internal/domain"
	"couples-sync/internal/logger"
	"couples-sync/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request ULID for correlating client and
// service logs.
const RequestIDHeader = "X-Request-ID"

// HTTPTransport implements domain.Transport with fiber's fasthttp-based
// client. It never retries.
type HTTPTransport struct {
	client  *fiber.Client
	baseURL string
	timeout time.Duration
}

// NewHTTPTransport creates a transport for the service described by cfg.
func NewHTTPTransport(cfg config.ServiceConfig) (*HTTPTransport, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("service base URL cannot be empty")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultServiceTimeout
	}
	return &HTTPTransport{
		client:  &fiber.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
	}, nil
}

// Post sends form as application/x-www-form-urlencoded to path.
func (t *HTTPTransport) Post(ctx context.Context, path string, form url.Values) (*domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewTransportFailureError(path, err)
	}

	requestID := util.NewULID()
	agent := t.client.Post(t.baseURL + path)
	agent.Set(RequestIDHeader, requestID)
	agent.Timeout(t.effectiveTimeout(ctx))

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	for key, values := range form {
		for _, v := range values {
			args.Add(key, v)
		}
	}
	agent.Form(args)

	if err := agent.Parse(); err != nil {
		return nil, domain.NewTransportFailureError(path, err)
	}

	start := time.Now()
	status, body, errs := agent.Bytes()
	duration := time.Since(start)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		logger.Get().Warn("Transport: no response from service",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", duration),
			zap.Error(err))
		return nil, domain.NewTransportFailureError(path, err)
	}

	logger.Get().Debug("Transport: service responded",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", status),
		zap.Int("body_bytes", len(body)),
		zap.Duration("duration", duration))

	return &domain.Response{Status: status, Body: body}, nil
}

// effectiveTimeout is the configured timeout, shortened to the context
// deadline when that comes first.
func (t *HTTPTransport) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}
