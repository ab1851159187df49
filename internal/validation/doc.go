// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Fields are reported
// by their `param` tag so messages name the query parameter the client sent.
//
// Custom tags:
//   - bookid: a catalog identifier (ISBN-like, printable, no whitespace, <= 32 chars)
//   - notblank: a string that is not empty after trimming
//
//	type similarRequest struct {
//	    ISBN string `param:"isbn" validate:"bookid"`
//	    K    int    `param:"k"`
//	}
package validation
