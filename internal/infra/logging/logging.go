package logging

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/KrappRamiro/zero2prod/internal/config"

	"github.com/rs/zerolog"
)

// devMode is set once at construction; it controls PII redaction in With.
var devMode bool

// New creates a zerolog logger configured from config.
// Supports "trace" | "debug" | "info" | "warn" | "error" levels
// and "json" | "console" formats. Sampling can be enabled to reduce noise in prod.
func New(cfg config.LogConfig, dev bool) *zerolog.Logger {
	devMode = dev
	level, _ := zerolog.ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var base zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" || dev {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		base = zerolog.New(out).With().Timestamp().Logger()
	} else {
		base = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if cfg.Sampling && !dev {
		// Simple sampling: keep first 100, then 1 every 100 thereafter.
		sampled := base.Sample(&zerolog.BasicSampler{N: 100})
		return &sampled
	}
	return &base
}

// Request-scoped fields ride on the context so handlers and use cases can
// log with them without knowing about each other.
type ctxKey string

const (
	ctxRequestID       ctxKey = "request_id"
	ctxSubscriberEmail ctxKey = "subscriber_email"
	ctxSubscriberName  ctxKey = "subscriber_name"
)

// With returns base enriched with whatever request-scoped fields the context
// carries. Subscriber PII is redacted outside dev mode.
func With(ctx context.Context, base *zerolog.Logger) *zerolog.Logger {
	l := base.With()
	if v := ctx.Value(ctxRequestID); v != nil {
		l = l.Str("request_id", v.(string))
	}
	if v := ctx.Value(ctxSubscriberEmail); v != nil {
		l = l.Str("subscriber_email", Redact(v.(string), devMode))
	}
	if v := ctx.Value(ctxSubscriberName); v != nil {
		l = l.Str("subscriber_name", Redact(v.(string), devMode))
	}
	logger := l.Logger()
	return &logger
}

// TraceDuration logs start and end with elapsed duration at TRACE level.
// Usage: defer logging.TraceDuration(logger, "SubscriptionUC.Subscribe")()
func TraceDuration(logger *zerolog.Logger, name string) func() {
	start := time.Now()
	logger.Trace().Str("method", name).Msg("start")
	return func() {
		elapsed := time.Since(start)
		logger.Trace().Str("method", name).Dur("duration", elapsed).Msg("finish")
	}
}

// Redact hides PII when not in dev; keep short/preview.
func Redact(s string, dev bool) string {
	if dev {
		return s
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-2:]
}

// Helpers to put request-scoped values into context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestID, id)
}
func WithSubscriberEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxSubscriberEmail, email)
}
func WithSubscriberName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxSubscriberName, name)
}
