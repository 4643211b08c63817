// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

// Package events carries user interaction events from the API to the
// preference store through an in-process Watermill pipeline. Publishing is
// decoupled from preference folding so a slow store write never blocks the
// interaction endpoint.
package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/memezing/engine/internal/recommend"
)

// SchemaVersion is the current interaction event schema version.
const SchemaVersion = 1

// TopicInteractions is the topic interaction events are published on.
const TopicInteractions = "interactions"

// InteractionEvent is the wire form of one user interaction with a
// content item.
type InteractionEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`

	Action         recommend.Action `json:"action"`
	TargetID       string           `json:"target_id,omitempty"`
	TargetCategory string           `json:"target_category"`
	TargetTags     []string         `json:"target_tags,omitempty"`
}

// NewInteractionEvent builds an event with a fresh ID and timestamp.
func NewInteractionEvent(userID string, action recommend.Action, targetID, targetCategory string, targetTags []string) InteractionEvent {
	return InteractionEvent{
		SchemaVersion:  SchemaVersion,
		EventID:        uuid.New().String(),
		UserID:         userID,
		Timestamp:      time.Now().UTC(),
		Action:         action,
		TargetID:       targetID,
		TargetCategory: targetCategory,
		TargetTags:     targetTags,
	}
}

// Validate checks the fields consumers depend on.
func (e InteractionEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if !e.Action.Valid() {
		return fmt.Errorf("action %q: %w", e.Action, recommend.ErrUnknownAction)
	}
	if e.TargetCategory == "" {
		return fmt.Errorf("target_category is required")
	}
	return nil
}

// Update converts the wire event into the preference update input.
func (e InteractionEvent) Update() recommend.InteractionEvent {
	return recommend.InteractionEvent{
		Action:         e.Action,
		TargetCategory: e.TargetCategory,
		TargetTags:     e.TargetTags,
	}
}

// Marshal encodes a validated event to JSON.
func Marshal(e InteractionEvent) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Unmarshal decodes an event from JSON without validating it.
func Unmarshal(data []byte) (InteractionEvent, error) {
	var e InteractionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return InteractionEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}
