// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/bookmatch/internal/validation"
)

// SimilarByISBNRequest holds the parameters of GET /books/{isbn}/similar.
// K is not bounded here: the engine clamps it to max_k and returns an empty
// list for k <= 0.
type SimilarByISBNRequest struct {
	ISBN string `param:"isbn" validate:"bookid"`
	K    int    `param:"k"`
}

// SimilarByTitleRequest holds the parameters of GET /books/similar.
type SimilarByTitleRequest struct {
	Title string `param:"title" validate:"notblank,max=512"`
	K     int    `param:"k"`
}

// GenreBooksRequest holds the parameters of GET /genres/{genre}/books.
// N of 0 uses the configured sample size.
type GenreBooksRequest struct {
	Genre string `param:"genre" validate:"notblank,max=64"`
	N     int    `param:"n" validate:"gte=0,lte=1000"`
	Seed  int64  `param:"seed"`
}

// PopularRequest holds the parameters of GET /books/popular.
// Zero values use the configured chart defaults.
type PopularRequest struct {
	Limit      int `param:"limit" validate:"gte=0,lte=1000"`
	MinRatings int `param:"min_ratings" validate:"gte=0,lte=1000000"`
}

// paramError reports a query parameter that is not a valid number.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be an integer, got %q", e.name, e.value)
}

// getIntParam returns the integer query parameter name, or def when absent.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

// getInt64Param is getIntParam for 64-bit values.
func getInt64Param(r *http.Request, name string, def int64) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &paramError{name: name, value: raw}
	}
	return v, nil
}

// validateRequest runs struct validation and writes a VALIDATION_FAILED
// response on failure. It reports whether the handler may continue.
func validateRequest(rw *ResponseWriter, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	rw.ValidationError(verr.Error(), verr.Details())
	return false
}

// respondParamError writes a VALIDATION_FAILED response for a bad parameter.
func respondParamError(rw *ResponseWriter, err error) {
	rw.ValidationError(err.Error(), nil)
}
