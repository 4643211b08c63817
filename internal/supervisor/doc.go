// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

/*
Package supervisor provides process supervision for the engine using suture v4.

It implements a hierarchical supervisor tree that manages the lifecycle of all
long-running services, with Erlang/OTP-style automatic restart, failure
isolation, and graceful shutdown.

The tree organizes services into three layers:

	Root ("memezing")
	├── DataSupervisor ("data-layer")
	│   └── preference store maintenance (Badger GC)
	├── EventsSupervisor ("events-layer")
	│   └── interaction event pipeline (Watermill router)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

This hierarchy ensures that a crash in the event pipeline does not take down
the HTTP API, and store maintenance failures do not interrupt event delivery.
Each layer has independent failure counting with exponential decay; when a
layer exceeds its FailureThreshold the supervisor backs off for FailureBackoff
before restarting.

All services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return nil for a clean stop (no restart), return an error to be restarted,
and return promptly when the context is canceled.

Supervision events are logged via slog through the sutureslog adapter; see
the logging package for the zerolog bridge.
*/
package supervisor
