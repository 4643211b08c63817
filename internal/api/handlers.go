// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memezing/engine/internal/catalog"
	"github.com/memezing/engine/internal/events"
	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/metrics"
	"github.com/memezing/engine/internal/moderation"
	"github.com/memezing/engine/internal/recommend"
)

// PreferenceStore is the store surface the handlers need.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context, userID string) ([]recommend.UserPreference, error)
	LoadInterests(ctx context.Context, userID string) ([]string, error)
	SaveInterests(ctx context.Context, userID string, interests []string) error
}

// EventPublisher publishes interaction events onto the pipeline.
type EventPublisher interface {
	Publish(event events.InteractionEvent) error
}

// Handlers implements every endpoint.
type Handlers struct {
	catalog   *catalog.Catalog
	store     PreferenceStore
	evaluator *moderation.Evaluator
	publisher EventPublisher
	weights   recommend.Weights

	startTime time.Time
}

// NewHandlers wires the handler set.
func NewHandlers(cat *catalog.Catalog, store PreferenceStore, evaluator *moderation.Evaluator, publisher EventPublisher, weights recommend.Weights) *Handlers {
	return &Handlers{
		catalog:   cat,
		store:     store,
		evaluator: evaluator,
		publisher: publisher,
		weights:   weights,
		startTime: time.Now(),
	}
}

// HealthLive reports process liveness.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status": "ok",
	})
}

// HealthReady reports readiness with basic runtime facts.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"catalog_items":  h.catalog.Len(),
	})
}

// GetRecommendations serves the personalized feed for a user. Users
// without interests get the popularity-ranked cold-start feed.
func (h *Handlers) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	limit, err := recommendLimit(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	interests, err := h.store.LoadInterests(r.Context(), userID)
	if err != nil {
		rw.InternalError(err)
		return
	}
	prefs, err := h.store.LoadPreferences(r.Context(), userID)
	if err != nil {
		rw.InternalError(err)
		return
	}

	start := time.Now()
	results, err := recommend.RecommendWith(h.weights, interests, prefs, h.catalog.ActiveItems(), limit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	branch := "personalized"
	if len(interests) == 0 {
		branch = "cold_start"
	}
	metrics.RecordRecommendation(branch, len(results), time.Since(start))

	rw.Success(map[string]interface{}{
		"user_id":         userID,
		"count":           len(results),
		"recommendations": results,
	})
}

// GetPreferences returns a user's learned preference vector.
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	prefs, err := h.store.LoadPreferences(r.Context(), userID)
	if err != nil {
		rw.InternalError(err)
		return
	}

	rw.Success(map[string]interface{}{
		"user_id":     userID,
		"preferences": prefs,
	})
}

// PutInterests replaces a user's declared interest categories.
func (h *Handlers) PutInterests(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user ID is required")
		return
	}

	var req InterestsRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	var unknown []string
	for _, interest := range req.Interests {
		if !recommend.IsKnownInterest(interest) {
			unknown = append(unknown, interest)
		}
	}
	if len(unknown) > 0 {
		rw.ValidationError("unknown interest categories", map[string]interface{}{
			"unknown": unknown,
			"known":   recommend.KnownInterests(),
		})
		return
	}

	if err := h.store.SaveInterests(r.Context(), userID, req.Interests); err != nil {
		rw.InternalError(err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("user_id", userID).
		Strs("interests", req.Interests).
		Msg("interests updated")

	rw.Success(map[string]interface{}{
		"user_id":   userID,
		"interests": req.Interests,
	})
}

// PostInteraction accepts one interaction event and publishes it for
// asynchronous preference folding.
func (h *Handlers) PostInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req InteractionRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	event := events.NewInteractionEvent(
		req.UserID,
		recommend.Action(req.Action),
		req.TargetID,
		req.TargetCategory,
		req.TargetTags,
	)
	if err := h.publisher.Publish(event); err != nil {
		rw.InternalError(err)
		return
	}

	rw.Accepted(map[string]interface{}{
		"event_id": event.EventID,
	})
}

// EvaluateContent runs the moderation rule set over a feature vector and
// returns the verdict. Verdicts are never stored.
func (h *Handlers) EvaluateContent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ModerationRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	verdict := h.evaluator.Evaluate(req.ContentID, req.Features)
	metrics.RecordVerdict(string(verdict.Classification), verdict.RiskScore, verdict.NeedsReview)

	rw.Success(verdict)
}

// GetCatalog lists the active catalog items.
func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.ActiveItems()
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}

// ruleView is the wire form of a moderation rule's state.
type ruleView struct {
	Name    string  `json:"name"`
	Class   string  `json:"class"`
	Weight  float64 `json:"weight"`
	Enabled bool    `json:"enabled"`
}

func viewOf(rule moderation.Rule) ruleView {
	return ruleView{
		Name:    rule.Name(),
		Class:   string(rule.Class()),
		Weight:  rule.Weight(),
		Enabled: rule.Enabled(),
	}
}

// ListRules lists every registered moderation rule.
func (h *Handlers) ListRules(w http.ResponseWriter, r *http.Request) {
	rules := h.evaluator.Rules()
	views := make([]ruleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, viewOf(rule))
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"count": len(views),
		"rules": views,
	})
}

// GetRule returns one moderation rule's state.
func (h *Handlers) GetRule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := chi.URLParam(r, "name")
	rule, ok := h.evaluator.Rule(name)
	if !ok {
		rw.NotFound("unknown rule: " + name)
		return
	}
	rw.Success(viewOf(rule))
}

// UpdateRule reconfigures or toggles one moderation rule.
func (h *Handlers) UpdateRule(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := chi.URLParam(r, "name")
	rule, ok := h.evaluator.Rule(name)
	if !ok {
		rw.NotFound("unknown rule: " + name)
		return
	}

	var req RuleUpdateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	if len(req.Config) > 0 {
		if err := rule.Configure(req.Config); err != nil {
			rw.BadRequest("invalid rule configuration: " + err.Error())
			return
		}
	}
	if req.Enabled != nil {
		rule.SetEnabled(*req.Enabled)
	}

	logging.Ctx(r.Context()).Info().
		Str("rule", name).
		Bool("enabled", rule.Enabled()).
		Msg("moderation rule updated")

	rw.Success(viewOf(rule))
}

// GetThresholds returns the active moderation thresholds.
func (h *Handlers) GetThresholds(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.evaluator.Thresholds())
}

// PutThresholds adjusts the moderation thresholds. Omitted fields keep
// their current values.
func (h *Handlers) PutThresholds(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ThresholdsUpdateRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	thresholds := req.Apply(h.evaluator.Thresholds())
	if err := h.evaluator.SetThresholds(thresholds); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	logging.Ctx(r.Context()).Info().
		Float64("spam", thresholds.Spam).
		Float64("inappropriate", thresholds.Inappropriate).
		Float64("high_risk", thresholds.HighRisk).
		Float64("confidence", thresholds.Confidence).
		Msg("moderation thresholds updated")

	rw.Success(thresholds)
}
