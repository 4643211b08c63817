// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/metrics"
	"github.com/memezing/engine/internal/recommend"
)

// PreferenceApplier folds interaction events into stored preference
// vectors. *store.Store satisfies it.
type PreferenceApplier interface {
	ApplyEvent(ctx context.Context, userID string, event recommend.InteractionEvent) ([]recommend.UserPreference, error)
}

// Consumer applies interaction events to the preference store.
type Consumer struct {
	store PreferenceApplier
}

// NewConsumer creates a consumer backed by the given store.
func NewConsumer(store PreferenceApplier) *Consumer {
	return &Consumer{store: store}
}

// Handle processes one message. Malformed and invalid events are dropped
// with an ack: retrying them can never succeed and would only clog the
// retry middleware.
func (c *Consumer) Handle(msg *message.Message) error {
	event, err := Unmarshal(msg.Payload)
	if err != nil {
		metrics.InteractionsFailed.WithLabelValues("parse").Inc()
		logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed interaction event")
		return nil
	}

	if err := event.Validate(); err != nil {
		metrics.InteractionsFailed.WithLabelValues("validation").Inc()
		logging.Warn().Err(err).Str("event_id", event.EventID).Msg("dropping invalid interaction event")
		return nil
	}

	if _, err := c.store.ApplyEvent(msg.Context(), event.UserID, event.Update()); err != nil {
		if errors.Is(err, recommend.ErrUnknownAction) {
			metrics.InteractionsFailed.WithLabelValues("validation").Inc()
			logging.Warn().Err(err).Str("event_id", event.EventID).Msg("dropping interaction event with unknown action")
			return nil
		}
		metrics.InteractionsFailed.WithLabelValues("store").Inc()
		return fmt.Errorf("apply event %s: %w", event.EventID, err)
	}

	metrics.InteractionsProcessed.Inc()
	logging.Debug().
		Str("event_id", event.EventID).
		Str("user_id", event.UserID).
		Str("action", string(event.Action)).
		Msg("interaction event applied")
	return nil
}
