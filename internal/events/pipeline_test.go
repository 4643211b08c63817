// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/memezing/engine/internal/recommend"
)

type appliedEvent struct {
	userID string
	event  recommend.InteractionEvent
}

// recordingApplier captures ApplyEvent calls and optionally fails them.
type recordingApplier struct {
	mu      sync.Mutex
	applied []appliedEvent
	err     error
	notify  chan appliedEvent
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{notify: make(chan appliedEvent, 16)}
}

func (r *recordingApplier) ApplyEvent(_ context.Context, userID string, event recommend.InteractionEvent) ([]recommend.UserPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	a := appliedEvent{userID: userID, event: event}
	r.applied = append(r.applied, a)
	r.notify <- a
	return nil, nil
}

func (r *recordingApplier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryCount = 1
	cfg.RetryInterval = time.Millisecond
	cfg.CloseTimeout = time.Second
	return cfg
}

func startPipeline(t *testing.T, cfg Config, store PreferenceApplier) *Pipeline {
	t.Helper()

	p, err := NewPipeline(cfg, store)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		if err := p.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})

	select {
	case <-p.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not start")
	}
	return p
}

func TestPipelineAppliesEvents(t *testing.T) {
	applier := newRecordingApplier()
	p := startPipeline(t, testConfig(), applier)

	event := NewInteractionEvent("user-1", recommend.ActionLike, "meme-1", "gaming", []string{"esports"})
	if err := p.Publisher().Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case got := <-applier.notify:
		if got.userID != "user-1" {
			t.Errorf("user = %q, want user-1", got.userID)
		}
		if got.event.Action != recommend.ActionLike || got.event.TargetCategory != "gaming" {
			t.Errorf("applied event = %+v", got.event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event was not applied")
	}
}

func TestPipelinePoisonsFailingEvents(t *testing.T) {
	applier := newRecordingApplier()
	applier.err = errors.New("store unavailable")

	cfg := testConfig()
	p, err := NewPipeline(cfg, applier)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe before the router runs so no poison message is missed.
	poisoned, err := p.Subscribe(ctx, cfg.PoisonTopic)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = p.Close()
	})

	select {
	case <-p.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not start")
	}

	event := NewInteractionEvent("user-1", recommend.ActionView, "", "food", nil)
	if err := p.Publisher().Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-poisoned:
		msg.Ack()
		if msg.UUID != event.EventID {
			t.Errorf("poisoned message UUID = %q, want %q", msg.UUID, event.EventID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event was not poisoned")
	}
}

func TestPublisherRejectsInvalidEvent(t *testing.T) {
	applier := newRecordingApplier()
	p := startPipeline(t, testConfig(), applier)

	event := NewInteractionEvent("", recommend.ActionView, "", "food", nil)
	if err := p.Publisher().Publish(event); err == nil {
		t.Error("expected error publishing event without user ID")
	}
}

func TestConsumerDropsMalformedPayload(t *testing.T) {
	c := NewConsumer(newRecordingApplier())

	msg := message.NewMessage("id-1", []byte("{not json"))
	if err := c.Handle(msg); err != nil {
		t.Errorf("malformed payload should be dropped, got %v", err)
	}
}

func TestConsumerDropsInvalidEvent(t *testing.T) {
	applier := newRecordingApplier()
	c := NewConsumer(applier)

	data, err := Marshal(NewInteractionEvent("user-1", recommend.ActionView, "", "food", nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// Corrupt the action after marshalling so Validate fails at the consumer.
	event, _ := Unmarshal(data)
	event.Action = "poke"
	raw, _ := json.Marshal(event)

	if err := c.Handle(message.NewMessage(event.EventID, raw)); err != nil {
		t.Errorf("invalid event should be dropped, got %v", err)
	}
	if applier.count() != 0 {
		t.Error("invalid event must not reach the store")
	}
}

func TestConsumerReturnsStoreErrors(t *testing.T) {
	applier := newRecordingApplier()
	applier.err = errors.New("store unavailable")
	c := NewConsumer(applier)

	data, err := Marshal(NewInteractionEvent("user-1", recommend.ActionView, "", "food", nil))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := c.Handle(message.NewMessage("id-1", data)); err == nil {
		t.Error("store failures must propagate for retry")
	}
}
