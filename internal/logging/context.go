// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	correlationIDKey contextKey = "correlation_id"
)

// GenerateRequestID returns a full UUID. The API echoes it in X-Request-ID
// and in every response envelope.
func GenerateRequestID() string {
	return uuid.New().String()
}

// GenerateCorrelationID returns a short ID for grepping one request's log
// lines.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID attaches a freshly generated correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// Ctx returns the global logger with the request and correlation IDs of ctx
// attached.
//
//	logging.Ctx(r.Context()).Warn().Err(err).Str("isbn", isbn).Msg("similar books failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := global.Load().With()
	for _, key := range []contextKey{requestIDKey, correlationIDKey} {
		if v := stringValue(ctx, key); v != "" {
			logCtx = logCtx.Str(string(key), v)
		}
	}
	l := logCtx.Logger()
	return &l
}
