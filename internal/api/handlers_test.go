// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/memezing/engine/internal/catalog"
	"github.com/memezing/engine/internal/events"
	"github.com/memezing/engine/internal/moderation"
	"github.com/memezing/engine/internal/recommend"
)

// fakeStore is an in-memory PreferenceStore.
type fakeStore struct {
	prefs     map[string][]recommend.UserPreference
	interests map[string][]string
	failing   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		prefs:     make(map[string][]recommend.UserPreference),
		interests: make(map[string][]string),
	}
}

func (s *fakeStore) LoadPreferences(_ context.Context, userID string) ([]recommend.UserPreference, error) {
	if s.failing {
		return nil, errFailingStore
	}
	return s.prefs[userID], nil
}

func (s *fakeStore) LoadInterests(_ context.Context, userID string) ([]string, error) {
	if s.failing {
		return nil, errFailingStore
	}
	return s.interests[userID], nil
}

func (s *fakeStore) SaveInterests(_ context.Context, userID string, interests []string) error {
	if s.failing {
		return errFailingStore
	}
	s.interests[userID] = interests
	return nil
}

var errFailingStore = errors.New("store unavailable")

// fakePublisher records published events.
type fakePublisher struct {
	published []events.InteractionEvent
}

func (p *fakePublisher) Publish(event events.InteractionEvent) error {
	p.published = append(p.published, event)
	return nil
}

type testEnv struct {
	router    http.Handler
	store     *fakeStore
	publisher *fakePublisher
	evaluator *moderation.Evaluator
	auth      *Authenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cat, err := catalog.New([]recommend.ContentItem{
		{ID: "meme-a", Title: "Travel pun", Category: "travel", Tags: []string{"adventure"}, Popularity: 50, Active: true},
		{ID: "meme-b", Title: "Ranked grind", Category: "gaming", Tags: []string{"esports"}, Popularity: 90, Active: true},
		{ID: "meme-c", Title: "Mukbang bits", Category: "food", Tags: []string{"mukbang"}, Popularity: 70, Active: true},
		{ID: "meme-d", Title: "Retired meme", Category: "food", Tags: []string{"recipe"}, Popularity: 95, Active: false},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	store := newFakeStore()
	publisher := &fakePublisher{}
	evaluator := moderation.DefaultEvaluator()
	auth := NewAuthenticator("0123456789abcdef0123456789abcdef", time.Hour)

	handlers := NewHandlers(cat, store, evaluator, publisher, recommend.DefaultWeights())
	middleware := NewMiddleware(DefaultMiddlewareConfig())
	router := NewRouter(handlers, middleware, auth).Setup()

	return &testEnv{
		router:    router,
		store:     store,
		publisher: publisher,
		evaluator: evaluator,
		auth:      auth,
	}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func dataMap(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()

	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %#v", resp.Data)
	}
	return m
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	token, err := env.auth.IssueToken("ops", RoleAdmin)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/health/live", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); !resp.Success {
		t.Error("expected success envelope")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestGetRecommendationsColdStart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/recommendations/user/newcomer", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3 active items", data["count"])
	}

	recs := data["recommendations"].([]interface{})
	first := recs[0].(map[string]interface{})
	item := first["item"].(map[string]interface{})
	if item["id"] != "meme-b" {
		t.Errorf("top cold-start item = %v, want meme-b (highest popularity)", item["id"])
	}
	if first["reason"] != "popular item" {
		t.Errorf("reason = %v, want popular item", first["reason"])
	}
}

func TestGetRecommendationsPersonalized(t *testing.T) {
	env := newTestEnv(t)
	env.store.interests["user-1"] = []string{"food"}

	rec := env.request(t, http.MethodGet, "/api/v1/recommendations/user/user-1", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	recs := data["recommendations"].([]interface{})
	first := recs[0].(map[string]interface{})
	item := first["item"].(map[string]interface{})
	if item["id"] != "meme-c" {
		t.Errorf("top personalized item = %v, want meme-c", item["id"])
	}
}

func TestGetRecommendationsLimitValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"negative", "?limit=-1", http.StatusBadRequest},
		{"not a number", "?limit=abc", http.StatusBadRequest},
		{"zero", "?limit=0", http.StatusOK},
		{"valid", "?limit=2", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(t, http.MethodGet, "/api/v1/recommendations/user/u"+tt.query, nil, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPutInterests(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPut, "/api/v1/users/user-1/interests",
		InterestsRequest{Interests: []string{"gaming", "food"}}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := env.store.interests["user-1"]; len(got) != 2 || got[0] != "gaming" {
		t.Errorf("stored interests = %v", got)
	}
}

func TestPutInterestsRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPut, "/api/v1/users/user-1/interests",
		InterestsRequest{Interests: []string{"gaming", "astrology"}}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want %s", resp.Error, ErrCodeValidationFailed)
	}
	if len(env.store.interests["user-1"]) != 0 {
		t.Error("interests must not be stored on validation failure")
	}
}

func TestGetPreferences(t *testing.T) {
	env := newTestEnv(t)
	env.store.prefs["user-1"] = []recommend.UserPreference{
		recommend.SelfKeyedPreference("gaming", 0.3, recommend.SourceInteraction),
	}

	rec := env.request(t, http.MethodGet, "/api/v1/users/user-1/preferences", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	prefs := data["preferences"].([]interface{})
	if len(prefs) != 1 {
		t.Fatalf("expected 1 preference, got %d", len(prefs))
	}
}

func TestPostInteraction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/v1/interactions/", InteractionRequest{
		UserID:         "user-1",
		Action:         "like",
		TargetID:       "meme-b",
		TargetCategory: "gaming",
		TargetTags:     []string{"esports"},
	}, "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}

	if len(env.publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(env.publisher.published))
	}
	event := env.publisher.published[0]
	if event.UserID != "user-1" || event.Action != recommend.ActionLike {
		t.Errorf("published event = %+v", event)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["event_id"] != event.EventID {
		t.Errorf("event_id = %v, want %s", data["event_id"], event.EventID)
	}
}

func TestPostInteractionRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/v1/interactions/", InteractionRequest{
		UserID:         "user-1",
		Action:         "poke",
		TargetCategory: "gaming",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(env.publisher.published) != 0 {
		t.Error("invalid interaction must not be published")
	}
}

func TestEvaluateContent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/v1/moderation/evaluate", ModerationRequest{
		ContentID: "meme-x",
		Features: moderation.Features{
			Text:            "wholesome cat content",
			AccountAgeHours: 720,
		},
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["classification"] != "clean" {
		t.Errorf("classification = %v, want clean", data["classification"])
	}
	if data["content_id"] != "meme-x" {
		t.Errorf("content_id = %v, want meme-x", data["content_id"])
	}
}

func TestEvaluateContentBlocksHighRisk(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/v1/moderation/evaluate", ModerationRequest{
		ContentID: "meme-y",
		Features: moderation.Features{
			Text:            "FREE MONEY click here now",
			ReportCount:     12,
			AccountAgeHours: 2,
			UploadsLastHour: 9,
			LinkCount:       5,
		},
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data := dataMap(t, decodeEnvelope(t, rec))
	if data["classification"] != "blocked" {
		t.Errorf("classification = %v, want blocked", data["classification"])
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/moderation/rules", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	viewer, err := env.auth.IssueToken("viewer", "viewer")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	rec = env.request(t, http.MethodGet, "/api/v1/moderation/rules", nil, viewer)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = env.request(t, http.MethodGet, "/api/v1/moderation/rules", nil, env.adminToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	data := dataMap(t, decodeEnvelope(t, rec))
	if data["count"].(float64) != 6 {
		t.Errorf("rule count = %v, want 6", data["count"])
	}

	// The catalog dump is admin only as well.
	rec = env.request(t, http.MethodGet, "/api/v1/catalog", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("catalog status = %d, want 401", rec.Code)
	}
	rec = env.request(t, http.MethodGet, "/api/v1/catalog", nil, env.adminToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateRule(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	disabled := false
	rec := env.request(t, http.MethodPut, "/api/v1/moderation/rules/link_spam",
		RuleUpdateRequest{Enabled: &disabled}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	rule, ok := env.evaluator.Rule("link_spam")
	if !ok {
		t.Fatal("rule disappeared")
	}
	if rule.Enabled() {
		t.Error("rule should be disabled")
	}
}

func TestUpdateRuleUnknownName(t *testing.T) {
	env := newTestEnv(t)

	enabled := true
	rec := env.request(t, http.MethodPut, "/api/v1/moderation/rules/nonexistent",
		RuleUpdateRequest{Enabled: &enabled}, env.adminToken(t))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateRuleRejectsBadConfig(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPut, "/api/v1/moderation/rules/flagged_keywords",
		RuleUpdateRequest{Config: json.RawMessage(`{"weight": -5}`)}, env.adminToken(t))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestPutThresholds(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	want := moderation.Thresholds{Spam: 50, Inappropriate: 30, HighRisk: 90, Confidence: 50}
	rec := env.request(t, http.MethodPut, "/api/v1/moderation/thresholds", want, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := env.evaluator.Thresholds(); got != want {
		t.Errorf("thresholds = %+v, want %+v", got, want)
	}

	// Misordered thresholds are rejected and the old values kept.
	bad := moderation.Thresholds{Spam: 95, Inappropriate: 30, HighRisk: 90, Confidence: 50}
	rec = env.request(t, http.MethodPut, "/api/v1/moderation/thresholds", bad, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := env.evaluator.Thresholds(); got != want {
		t.Errorf("thresholds changed on rejected update: %+v", got)
	}
}

func TestPutThresholdsPartialBody(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)
	initial := env.evaluator.Thresholds()

	// An empty body is a no-op, not a reset to zero.
	rec := env.request(t, http.MethodPut, "/api/v1/moderation/thresholds",
		ThresholdsUpdateRequest{}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := env.evaluator.Thresholds(); got != initial {
		t.Fatalf("thresholds = %+v, want unchanged %+v", got, initial)
	}

	// A single field overlays the current values.
	spam := 55.0
	rec = env.request(t, http.MethodPut, "/api/v1/moderation/thresholds",
		ThresholdsUpdateRequest{Spam: &spam}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	want := initial
	want.Spam = spam
	if got := env.evaluator.Thresholds(); got != want {
		t.Errorf("thresholds = %+v, want %+v", got, want)
	}
}

func TestStoreFailureReturns500(t *testing.T) {
	env := newTestEnv(t)
	env.store.failing = true

	rec := env.request(t, http.MethodGet, "/api/v1/recommendations/user/user-1", nil, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeInternalError {
		t.Errorf("error = %+v, want %s", resp.Error, ErrCodeInternalError)
	}
	if resp.Error != nil && resp.Error.Message != "internal error" {
		t.Errorf("internal error details must not leak, got %q", resp.Error.Message)
	}
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/catalog", nil, env.adminToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := dataMap(t, decodeEnvelope(t, rec))
	if data["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3 active items", data["count"])
	}
}
