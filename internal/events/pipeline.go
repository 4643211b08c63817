// Memezing - Meme Recommendation and Heuristic Moderation Engine
// Copyright 2026 Memezing contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/memezing/engine

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/memezing/engine/internal/logging"
	"github.com/memezing/engine/internal/metrics"
)

// Config holds the event pipeline settings.
type Config struct {
	// RetryCount is how many times a failed handler is retried before the
	// message goes to the poison topic.
	RetryCount int

	// RetryInterval is the initial backoff between retries.
	RetryInterval time.Duration

	// PoisonTopic receives messages that failed after all retries.
	PoisonTopic string

	// CloseTimeout is how long Close waits for in-flight handlers.
	CloseTimeout time.Duration

	// BufferSize is the output channel buffer of the in-process pub/sub.
	BufferSize int
}

// DefaultConfig returns production defaults for the pipeline.
func DefaultConfig() Config {
	return Config{
		RetryCount:    5,
		RetryInterval: time.Second,
		PoisonTopic:   "interactions.poison",
		CloseTimeout:  30 * time.Second,
		BufferSize:    256,
	}
}

// Pipeline is the in-process interaction event pipeline: a buffered
// pub/sub, a publisher for the API layer and a routed consumer that folds
// events into the preference store.
type Pipeline struct {
	pubsub    *gochannel.GoChannel
	router    *message.Router
	publisher *Publisher
}

// NewPipeline builds the pipeline and registers the store consumer.
// Handler panics become errors, transient store failures are retried with
// exponential backoff, and messages that keep failing are published to the
// poison topic instead of blocking the pipeline.
func NewPipeline(cfg Config, store PreferenceApplier) (*Pipeline, error) {
	logger := NewLoggerAdapter()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.BufferSize),
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryCount,
		InitialInterval: cfg.RetryInterval,
		MaxInterval:     time.Minute,
		Multiplier:      2.0,
		Logger:          logger,
	}
	router.AddMiddleware(retry.Middleware)

	if cfg.PoisonTopic != "" {
		poison, err := middleware.PoisonQueue(poisonCounter{pubsub}, cfg.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue: %w", err)
		}
		router.AddMiddleware(poison)
	}

	consumer := NewConsumer(store)
	router.AddConsumerHandler(
		"apply-interactions",
		TopicInteractions,
		pubsub,
		consumer.Handle,
	)

	return &Pipeline{
		pubsub:    pubsub,
		router:    router,
		publisher: NewPublisher(pubsub),
	}, nil
}

// Publisher returns the publisher the API layer hands events to.
func (p *Pipeline) Publisher() *Publisher {
	return p.publisher
}

// Subscribe exposes the underlying pub/sub, mainly so the poison topic can
// be drained or inspected.
func (p *Pipeline) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return p.pubsub.Subscribe(ctx, topic)
}

// Running returns a channel that closes once the router is running.
func (p *Pipeline) Running() <-chan struct{} {
	return p.router.Running()
}

// Serve runs the pipeline until the context is cancelled. It satisfies the
// supervisor's service interface.
func (p *Pipeline) Serve(ctx context.Context) error {
	return p.router.Run(ctx)
}

// String names the pipeline in supervisor logs.
func (p *Pipeline) String() string {
	return "event-pipeline"
}

// Close stops the router and the pub/sub.
func (p *Pipeline) Close() error {
	if err := p.router.Close(); err != nil {
		return fmt.Errorf("close router: %w", err)
	}
	return p.pubsub.Close()
}

// poisonCounter counts messages routed to the poison topic.
type poisonCounter struct {
	message.Publisher
}

func (p poisonCounter) Publish(topic string, msgs ...*message.Message) error {
	if err := p.Publisher.Publish(topic, msgs...); err != nil {
		return err
	}
	metrics.InteractionsPoisoned.Add(float64(len(msgs)))
	for _, msg := range msgs {
		logging.Error().Str("message_id", msg.UUID).Str("topic", topic).Msg("interaction event poisoned")
	}
	return nil
}
