// Package stream publishes round events to a Redis stream so that
// watchers can follow runs live. The stream carries telemetry out of the
// driver; nothing ever flows back into a decision.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/tomjorquera/flock/internal/runner"
)

const (
	// StreamRounds is the Redis stream carrying one entry per round.
	StreamRounds = "flock_rounds"
	// GroupWatchers is the consumer group for live watchers.
	GroupWatchers = "watcher_pool"
)

// RoundEvent is the payload published per round.
type RoundEvent struct {
	RunID          string       `json:"run_id"`
	Scenario       string       `json:"scenario"`
	Number         int          `json:"number"`
	MaxCriticality float64      `json:"max_criticality"`
	Round          runner.Round `json:"round"`
}

// Connect creates a Redis client from a URL.
func Connect(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Publisher pushes round events onto the stream. It implements
// runner.RoundObserver.
type Publisher struct {
	client *redis.Client
}

// NewPublisher creates a Publisher on the given client.
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// ObserveRound publishes one round to the stream.
func (p *Publisher) ObserveRound(ctx context.Context, t *runner.Trajectory, round runner.Round) error {
	payload, err := json.Marshal(RoundEvent{
		RunID:          t.RunID,
		Scenario:       t.Scenario,
		Number:         round.Number,
		MaxCriticality: round.MaxCriticality,
		Round:          round,
	})
	if err != nil {
		return fmt.Errorf("marshal round event: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamRounds,
		Values: map[string]any{
			"run_id":          t.RunID,
			"scenario":        t.Scenario,
			"number":          strconv.Itoa(round.Number),
			"max_criticality": strconv.FormatFloat(round.MaxCriticality, 'f', -1, 64),
			"payload":         string(payload),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("publish round %d: %w", round.Number, err)
	}
	return nil
}

// Reader consumes round events as part of the watcher group.
type Reader struct {
	client *redis.Client
}

// NewReader creates a Reader on the given client.
func NewReader(client *redis.Client) *Reader {
	return &Reader{client: client}
}

// EnsureGroup creates the watcher consumer group if it does not exist.
func (r *Reader) EnsureGroup(ctx context.Context) error {
	err := r.client.XGroupCreateMkStream(ctx, StreamRounds, GroupWatchers, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return fmt.Errorf("create group %s on %s: %w", GroupWatchers, StreamRounds, err)
	}
	return nil
}

// ReadRound blocks until one round event arrives and returns it with its
// message id for acknowledgement.
func (r *Reader) ReadRound(ctx context.Context, consumer string) (*RoundEvent, string, error) {
	streams, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    GroupWatchers,
		Consumer: consumer,
		Streams:  []string{StreamRounds, ">"},
		Count:    1,
		Block:    0,
	}).Result()
	if err != nil {
		return nil, "", fmt.Errorf("read round: %w", err)
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			payload, _ := msg.Values["payload"].(string)
			var ev RoundEvent
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return nil, "", fmt.Errorf("unmarshal round event %s: %w", msg.ID, err)
			}
			return &ev, msg.ID, nil
		}
	}
	return nil, "", fmt.Errorf("no messages")
}

// Ack acknowledges a consumed round event.
func (r *Reader) Ack(ctx context.Context, msgID string) error {
	return r.client.XAck(ctx, StreamRounds, GroupWatchers, msgID).Err()
}

// Status returns the number of entries currently in the stream.
func Status(ctx context.Context, client *redis.Client) (int64, error) {
	n, err := client.XLen(ctx, StreamRounds).Result()
	if err != nil {
		return 0, fmt.Errorf("stream status: %w", err)
	}
	return n, nil
}
