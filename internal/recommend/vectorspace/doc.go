// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

// Package vectorspace builds TF-IDF vector spaces over short text documents
// and answers nearest-neighbor queries against them.
//
// # Pipeline
//
// Build runs the same steps for every corpus:
//
//  1. Tokenize each document (lowercase, split on non-alphanumeric runes,
//     drop stop words and short tokens, optionally stem).
//  2. Assign term indexes in first-seen order: documents in corpus order,
//     tokens in document order.
//  3. tf(t,d) = count(t,d) / tokens(d). Documents without tokens get the
//     zero vector.
//  4. idf(t) = ln((1+N) / (1+df(t))) + 1 (smooth idf).
//  5. w(t,d) = tf(t,d) * idf(t).
//  6. Every non-zero vector is scaled to unit L2 norm.
//
// Vectors are stored sparse and sorted by term index, so every dot product
// sums its terms in the same order and Build is bit-for-bit reproducible.
//
// # Thread Safety
//
// An Index is immutable after Build or FromSnapshot returns. Any number of
// goroutines may query it concurrently without locking. Replacing an index
// is the caller's job (see recommend.Engine).
//
// # Usage
//
//	tok := vectorspace.NewTokenizer(vectorspace.DefaultTokenizerConfig())
//	ix, err := vectorspace.Build(docs, tok)
//	if err != nil {
//	    return err
//	}
//	neighbors, err := ix.Neighbors(0, 5)
package vectorspace
