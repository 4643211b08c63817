// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/memezing/engine/internal/moderation"
	"github.com/memezing/engine/internal/validation"
)

// maxRequestBody bounds request payloads at 1 MiB.
const maxRequestBody = 1 << 20

// InteractionRequest records one user interaction with a content item.
type InteractionRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	Action         string   `json:"action" validate:"required,oneof=view like share create download"`
	TargetID       string   `json:"target_id"`
	TargetCategory string   `json:"target_category" validate:"required"`
	TargetTags     []string `json:"target_tags" validate:"dive,required"`
}

// InterestsRequest replaces a user's declared interest categories. An
// empty list clears them.
type InterestsRequest struct {
	Interests []string `json:"interests" validate:"dive,required"`
}

// ModerationRequest asks for a verdict on one content item.
type ModerationRequest struct {
	ContentID string              `json:"content_id" validate:"required"`
	Features  moderation.Features `json:"features"`
}

// RuleUpdateRequest reconfigures a moderation rule. Both fields are
// optional; absent fields leave the current state untouched.
type RuleUpdateRequest struct {
	Enabled *bool           `json:"enabled"`
	Config  json.RawMessage `json:"config"`
}

// ThresholdsUpdateRequest adjusts the moderation thresholds. All fields
// are optional; absent fields keep their current values.
type ThresholdsUpdateRequest struct {
	Spam          *float64 `json:"spam"`
	Inappropriate *float64 `json:"inappropriate"`
	HighRisk      *float64 `json:"high_risk"`
	Confidence    *float64 `json:"confidence"`
}

// Apply overlays the set fields on top of current.
func (req ThresholdsUpdateRequest) Apply(current moderation.Thresholds) moderation.Thresholds {
	if req.Spam != nil {
		current.Spam = *req.Spam
	}
	if req.Inappropriate != nil {
		current.Inappropriate = *req.Inappropriate
	}
	if req.HighRisk != nil {
		current.HighRisk = *req.HighRisk
	}
	if req.Confidence != nil {
		current.Confidence = *req.Confidence
	}
	return current
}

const (
	defaultRecommendLimit = 20
	maxRecommendLimit     = 100
)

// recommendLimit parses the limit query parameter.
func recommendLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultRecommendLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %q", raw)
	}
	if limit < 0 {
		return 0, fmt.Errorf("limit must not be negative, got %d", limit)
	}
	if limit > maxRecommendLimit {
		limit = maxRecommendLimit
	}
	return limit, nil
}

// decodeAndValidate decodes the JSON body into v and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(rw.w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		rw.BadRequest("invalid JSON body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		rw.ValidationError("request validation failed", verr.Fields())
		return false
	}
	return true
}
