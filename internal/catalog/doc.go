// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package catalog loads book catalogs in the Book-Crossing (BX-Books) layout.
//
// The file is ';' separated with double-quoted fields, Latin-1 encoded, with
// a header row naming the columns:
//
//	"ISBN";"Book-Title";"Book-Author";"Year-Of-Publication";"Publisher";"Image-URL-S";"Image-URL-M";"Image-URL-L"
//
// Columns are resolved by header name. Malformed lines are skipped and
// counted rather than failing the load, because the public dump contains a
// few hundred broken rows.
//
// Two sources implement recommend.CatalogSource:
//
//   - FileSource reads a local file
//   - HTTPSource fetches the file over HTTP behind a circuit breaker
package catalog
