// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package main is the entry point for the Bookmatch server.

Bookmatch serves content-based book recommendations: every catalog item is
described by its title, author and publisher, indexed as a TF-IDF vector,
and compared to the others by cosine similarity.

# Application Architecture

	RootSupervisor ("bookmatch")
	├── DataSupervisor ("data-layer")
	│   └── IndexService (startup build, scheduled rebuilds, catalog watch)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog
 3. Snapshot store: BadgerDB, optional
 4. Popularity store: DuckDB over BX-Book-Ratings, optional
 5. Engine, catalog source (BX-Books file or HTTP URL behind a circuit
    breaker) and index service
 7. Auth guard: JWT for admin endpoints when JWT_SECRET is set
 8. HTTP router and supervisor tree

# Example Usage

	export CATALOG_PATH=/data/BX-Books.csv
	export RATINGS_PATH=/data/BX-Book-Ratings.csv
	export SNAPSHOT_PATH=/var/lib/bookmatch/snapshots
	export JWT_SECRET=$(openssl rand -base64 32)
	./bookmatch-server

	curl localhost:8080/api/v1/books/0439136350/similar?k=5

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
server.shutdown_timeout and the stores are closed on the way out.
*/
package main
