// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package auth

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/tomtom215/bookmatch/internal/logging"
)

type contextKey string

// ClaimsContextKey stores the validated *Claims in the request context.
const ClaimsContextKey contextKey = "claims"

// ErrorResponder writes an error response. The api package supplies one
// that renders its JSON envelope.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int, code, message string)

// Middleware guards admin endpoints with bearer tokens.
type Middleware struct {
	jwtManager *JWTManager
	audit      *logging.AuditLogger
	respond    ErrorResponder
}

// NewMiddleware creates the admin guard. A nil jwtManager disables
// authentication: every request is let through. A nil respond uses
// http.Error.
func NewMiddleware(jwtManager *JWTManager, audit *logging.AuditLogger, respond ErrorResponder) *Middleware {
	if audit == nil {
		audit = logging.NewAuditLogger()
	}
	if respond == nil {
		respond = func(w http.ResponseWriter, _ *http.Request, status int, _, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{jwtManager: jwtManager, audit: audit, respond: respond}
}

// Enabled reports whether tokens are checked.
func (m *Middleware) Enabled() bool {
	return m.jwtManager != nil
}

// RequireRole returns chi-compatible middleware that admits only requests
// carrying a valid token with the given role.
func (m *Middleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.jwtManager == nil {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				m.reject(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", "missing token")
				return
			}

			claims, err := m.jwtManager.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
				m.reject(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", err.Error())
				return
			}

			if claims.Role != role {
				m.reject(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permissions",
					"role "+claims.Role+" lacks "+role)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request, status int, code, message, reason string) {
	m.audit.LogAuthRejected(ClientIP(r), r.UserAgent(), r.URL.Path, reason)
	m.respond(w, r, status, code, message)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// ClaimsFromContext returns the claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// Subject returns the username of the authenticated caller, or "anonymous"
// when authentication is disabled.
func Subject(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok && claims.Username != "" {
		return claims.Username
	}
	return "anonymous"
}

// ClientIP returns the request's remote host. The router runs chi's RealIP
// middleware first, so proxy headers are already applied.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
