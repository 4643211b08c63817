// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package events

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/memezing/engine/internal/metrics"
)

// Publisher publishes interaction events onto the pipeline.
type Publisher struct {
	pub   message.Publisher
	topic string
}

// NewPublisher wraps a Watermill publisher for the interactions topic.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub, topic: TopicInteractions}
}

// Publish validates, encodes and publishes one event. The event ID becomes
// the message UUID so failed messages can be traced through the poison
// queue.
func (p *Publisher) Publish(event InteractionEvent) error {
	data, err := Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("user_id", event.UserID)

	if err := p.pub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventID, err)
	}
	metrics.InteractionsPublished.WithLabelValues(string(event.Action)).Inc()
	return nil
}
