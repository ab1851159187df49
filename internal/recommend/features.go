// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package recommend

// ComposeFeatures returns the text indexed for an item: title, author and
// publisher joined by single spaces. Empty fields still contribute their
// separator, so the output always holds exactly two joining spaces.
func ComposeFeatures(item *Item) string {
	return item.Title + " " + item.Author + " " + item.Publisher
}
