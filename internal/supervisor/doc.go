// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

/*
Package supervisor runs Bookmatch's long-lived services under suture v4.

The tree has two layers so a failing index service never takes the HTTP
server down:

	RootSupervisor ("bookmatch")
	├── DataSupervisor ("data-layer")
	│   └── IndexService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; the engine keeps serving the
last published index while the index service is down.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(indexService)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	errCh := tree.ServeBackground(ctx)

Supervisor events (starts, failures, backoff) are logged through sutureslog,
which writes to the zerolog logger via logging.NewSlogLogger.
*/
package supervisor
