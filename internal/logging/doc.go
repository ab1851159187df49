// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package logging provides centralized zerolog-based logging for Bookmatch.
//
//   - JSON output for production, console output for development
//   - Request and correlation IDs carried in context.Context
//   - A slog.Handler adapter for libraries that require slog (sutureslog)
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Catalog load failed")
//	logging.Ctx(ctx).Info().Str("isbn", isbn).Msg("Similar books served")
//
// Components receive a zerolog.Logger and tag it:
//
//	logger := logging.Component("index")
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller info (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
