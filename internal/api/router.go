// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the HTTP routes.
type Router struct {
	handlers   *Handlers
	middleware *Middleware
	auth       *Authenticator
}

// NewRouter creates the router.
func NewRouter(handlers *Handlers, middleware *Middleware, auth *Authenticator) *Router {
	return &Router{
		handlers:   handlers,
		middleware: middleware,
		auth:       auth,
	}
}

// Setup builds the chi handler tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.middleware.CORS())

	// Health endpoints get permissive rate limiting so monitors can poll.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.middleware.RateLimitHealth())
		r.Use(SecurityHeaders())
		r.Get("/live", rt.handlers.HealthLive)
		r.Get("/ready", rt.handlers.HealthReady)
	})

	// The raw catalog dump is an operator surface, not a user one.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(Instrument())
		r.Use(rt.auth.RequireAdmin)

		r.Get("/", rt.handlers.GetCatalog)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(Instrument())

		r.Get("/user/{userID}", rt.handlers.GetRecommendations)
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(Instrument())

		r.Get("/{userID}/preferences", rt.handlers.GetPreferences)
		r.With(rt.middleware.RateLimitWrite()).Put("/{userID}/interests", rt.handlers.PutInterests)
	})

	// Interaction writes get a stricter limit.
	r.Route("/api/v1/interactions", func(r chi.Router) {
		r.Use(rt.middleware.RateLimitWrite())
		r.Use(SecurityHeaders())
		r.Use(Instrument())

		r.Post("/", rt.handlers.PostInteraction)
	})

	// Moderation evaluation is called by the upload path, not end users.
	r.Route("/api/v1/moderation", func(r chi.Router) {
		r.Use(rt.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(Instrument())

		r.Post("/evaluate", rt.handlers.EvaluateContent)

		// Rule and threshold management is admin only.
		r.Group(func(r chi.Router) {
			r.Use(rt.auth.RequireAdmin)

			r.Get("/rules", rt.handlers.ListRules)
			r.Get("/rules/{name}", rt.handlers.GetRule)
			r.Put("/rules/{name}", rt.handlers.UpdateRule)
			r.Get("/thresholds", rt.handlers.GetThresholds)
			r.Put("/thresholds", rt.handlers.PutThresholds)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
