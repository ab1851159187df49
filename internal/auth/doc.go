// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package auth protects the index administration endpoints.

Reads are public. Rebuild and invalidate require an HS256 bearer token with
role "admin" once JWT_SECRET is configured; without a secret the guard lets
every request through.

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	guard := auth.NewMiddleware(jwtManager, logging.NewAuditLogger(), respondError)
	r.With(guard.RequireRole(auth.RoleAdmin)).Post("/index/rebuild", h.RebuildIndex)

Tokens are minted offline with the CLI:

	bookmatch token --user ops --role admin

Rejected requests are written to the audit log with the client IP and the
reason; tokens themselves are never logged.
*/
package auth
