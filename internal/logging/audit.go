// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// AuditEvent is an administrative action worth keeping in the log, such as
// an index rebuild or a rejected admin token.
type AuditEvent struct {
	// Action is the operation attempted ("index_rebuild", "index_invalidate", "auth_rejected").
	Action string
	// Subject is the token subject or username, if known.
	Subject string
	// Role is the role claimed by the caller.
	Role      string
	IPAddress string
	UserAgent string
	Success   bool
	Error     string
	Details   map[string]string
}

// AuditLogger writes AuditEvents with identifying values masked.
type AuditLogger struct {
	logger zerolog.Logger
}

// NewAuditLogger creates an audit logger on top of the global logger.
func NewAuditLogger() *AuditLogger {
	return &AuditLogger{logger: Component("audit")}
}

// NewAuditLoggerWithLogger creates an audit logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuditLoggerWithLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With().Str("component", "audit").Logger()}
}

// Log writes one audit event.
func (l *AuditLogger) Log(event *AuditEvent) {
	e := l.logger.Info()
	if !event.Success {
		e = l.logger.Warn()
	}
	e = e.Str("action", event.Action)

	if event.Success {
		e = e.Str("status", "success")
	} else {
		e = e.Str("status", "failed")
	}
	if event.Subject != "" {
		e = e.Str("subject", SanitizeSubject(event.Subject))
	}
	if event.Role != "" {
		e = e.Str("role", event.Role)
	}
	if event.IPAddress != "" {
		e = e.Str("ip", event.IPAddress)
	}
	if event.UserAgent != "" {
		e = e.Str("user_agent", truncateString(event.UserAgent, 100))
	}
	if event.Error != "" && !event.Success {
		e = e.Str("error", SanitizeError(event.Error))
	}
	for k, v := range event.Details {
		e = e.Str(k, SanitizeValue(k, v))
	}

	e.Msg("audit")
}

// LogIndexAction records an admin index operation.
func (l *AuditLogger) LogIndexAction(action, subject, ip string, err error) {
	ev := &AuditEvent{
		Action:    action,
		Subject:   subject,
		IPAddress: ip,
		Success:   err == nil,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	l.Log(ev)
}

// LogAuthRejected records a request whose admin token was refused.
func (l *AuditLogger) LogAuthRejected(ip, userAgent, path, reason string) {
	l.Log(&AuditEvent{
		Action:    "auth_rejected",
		IPAddress: ip,
		UserAgent: userAgent,
		Error:     reason,
		Details:   map[string]string{"path": path},
	})
}

// SanitizeToken masks a token, showing only the first and last 4 characters.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeSubject keeps the first 2 characters of a subject.
//
//	"operator" -> "op***"
func SanitizeSubject(subject string) string {
	if subject == "" {
		return ""
	}
	if len(subject) <= 2 {
		return "***"
	}
	return subject[:2] + "***"
}

// SanitizeError replaces messages that mention credentials and truncates the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range []string{"password", "secret", "bearer", "authorization", "signature"} {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

var sensitiveKeys = map[string]bool{
	"token":         true,
	"access_token":  true,
	"authorization": true,
	"secret":        true,
	"jwt_secret":    true,
	"api_key":       true,
}

// SanitizeValue masks value when key names a credential.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	return value
}

func truncateString(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
