// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 25*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	if after != before+1 {
		t.Errorf("request counter = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("active gauge = %v, want %v", got, base+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("active gauge = %v, want %v", got, base)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsServed.WithLabelValues("cold_start"))
	RecordRecommendation("cold_start", 10, time.Millisecond)
	after := testutil.ToFloat64(RecommendationsServed.WithLabelValues("cold_start"))
	if after != before+1 {
		t.Errorf("served counter = %v, want %v", after, before+1)
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("save_prefs"))
	RecordStoreOperation("save_prefs", time.Millisecond, nil)
	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("save_prefs")); got != before {
		t.Errorf("error counter incremented on success: %v", got)
	}
	RecordStoreOperation("save_prefs", time.Millisecond, errTest)
	if got := testutil.ToFloat64(StoreOperationErrors.WithLabelValues("save_prefs")); got != before+1 {
		t.Errorf("error counter = %v, want %v", got, before+1)
	}
}

func TestRecordVerdict(t *testing.T) {
	beforeBlocked := testutil.ToFloat64(ModerationVerdicts.WithLabelValues("blocked"))
	beforeReview := testutil.ToFloat64(ModerationNeedsReview)

	RecordVerdict("blocked", 85, true)

	if got := testutil.ToFloat64(ModerationVerdicts.WithLabelValues("blocked")); got != beforeBlocked+1 {
		t.Errorf("verdict counter = %v, want %v", got, beforeBlocked+1)
	}
	if got := testutil.ToFloat64(ModerationNeedsReview); got != beforeReview+1 {
		t.Errorf("review counter = %v, want %v", got, beforeReview+1)
	}
}

func TestSetCatalogSize(t *testing.T) {
	SetCatalogSize(42, 3)
	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("active")); got != 42 {
		t.Errorf("active gauge = %v, want 42", got)
	}
	if got := testutil.ToFloat64(CatalogItems.WithLabelValues("inactive")); got != 3 {
		t.Errorf("inactive gauge = %v, want 3", got)
	}
}

var errTest = errString("store failure")

type errString string

func (e errString) Error() string { return string(e) }
