// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package config loads Bookmatch configuration with Koanf v2.

Sources are layered, later ones winning:
  - Built-in defaults (defaultConfig)
  - An optional YAML file: CONFIG_PATH, ./config.yaml or /etc/bookmatch/config.yaml
  - Mapped environment variables

Only variables listed in the mapping table are read. List-valued settings
(RECOMMEND_STOP_WORDS, CORS_ORIGINS) accept comma-separated values.

# Environment Variables

Catalog:
  - CATALOG_PATH: BX-Books CSV file (required unless CATALOG_URL is set)
  - CATALOG_URL: fetch the catalog over HTTP instead
  - CATALOG_MAX_ITEMS: keep the first N books (default: 5000, 0 = all)
  - CATALOG_WATCH: rebuild when the file changes (default: false)

Recommendation:
  - RECOMMEND_DEFAULT_K: results when k is omitted (default: 5)
  - RECOMMEND_MAX_K: upper bound for k (default: 100)
  - RECOMMEND_STOP_WORDS: extra stop words
  - RECOMMEND_STEMMING: Snowball stemming (default: false)
  - RECOMMEND_REBUILD_INTERVAL: periodic rebuild (default: 0, disabled)

Ratings and snapshots:
  - RATINGS_PATH: BX-Book-Ratings CSV, enables the popularity chart
  - SNAPSHOT_PATH: BadgerDB directory for index snapshots

Server and security:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - JWT_SECRET: protects the index admin endpoints (32+ characters)
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Invalid configuration")
	}
*/
package config
