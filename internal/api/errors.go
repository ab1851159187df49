// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/bookmatch/internal/popularity"
	"github.com/tomtom215/bookmatch/internal/recommend"
)

// ErrPopularityDisabled indicates no ratings file was configured.
var ErrPopularityDisabled = errors.New("popularity chart is not configured")

// respondDomainError maps engine and store errors to HTTP responses.
// Unknown errors become 500s and are logged.
func respondDomainError(rw *ResponseWriter, err error) {
	var notFound *recommend.NotFoundError

	switch {
	case errors.As(err, &notFound):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, notFound.Error(),
			map[string]string{"lookup": string(notFound.Lookup), "key": notFound.ID})
	case errors.Is(err, recommend.ErrUnknownGenre):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, err.Error(),
			map[string]interface{}{"genres": genreNames()})
	case errors.Is(err, recommend.ErrIndexNotReady):
		rw.ServiceUnavailable(ErrCodeIndexNotReady, "The index has not been built yet")
	case errors.Is(err, recommend.ErrRebuildInProgress):
		rw.Error(http.StatusConflict, ErrCodeConflict, "A rebuild is already in progress")
	case errors.Is(err, recommend.ErrEmptyCatalog):
		rw.Error(http.StatusUnprocessableEntity, ErrCodeEmptyCatalog, err.Error())
	case errors.Is(err, ErrPopularityDisabled), errors.Is(err, popularity.ErrNoRatings):
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "The request timed out")
	default:
		rw.InternalError(err)
	}
}

func genreNames() []string {
	genres := recommend.Genres()
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names
}
