// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package services provides the suture.Service implementations run by the
supervisor tree.

HTTPServerService turns http.Server's blocking ListenAndServe into suture's
context-aware Serve and shuts the server down gracefully on cancellation.

IndexService owns the index lifecycle:

  - builds on start when no index is served
  - rebuilds every recommend.rebuild_interval (0 disables)
  - watches the catalog file with fsnotify and rebuilds once writes settle
  - implements api.Rebuilder for POST /api/v1/index/rebuild

All rebuilds after the first go through a golang.org/x/time/rate token
bucket (catalog.rebuild_burst per catalog.rebuild_every). Requests beyond the
budget are queued and coalesced:

	report, err := indexService.RequestRebuild(ctx, "api")
	// report == nil && err == nil: deferred, will run when a token frees up

Hooks registered with OnRebuild run after each successful rebuild; the server
uses one to refresh the popularity store's catalog and prune stale index
snapshots.
*/
package services
