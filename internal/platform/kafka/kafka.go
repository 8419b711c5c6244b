// Package kafka wraps a franz-go client for the audit event stream.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"onegov/internal/platform/config"
)

// Client produces to a single default topic.
type Client struct {
	cl    *kgo.Client
	topic string
}

// New connects to the configured brokers. Returns nil, nil when no brokers are set.
func New(ctx context.Context, cfg config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	if err := cl.Ping(ctx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return &Client{cl: cl, topic: cfg.AuditTopic}, nil
}

// EnsureTopic creates the default topic if it does not exist yet.
func (c *Client) EnsureTopic(ctx context.Context, partitions int32) error {
	if partitions < 1 {
		partitions = 1
	}
	resps, err := kadm.NewClient(c.cl).CreateTopics(ctx, partitions, -1, nil, c.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", c.topic, err)
	}
	for _, r := range resps {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish produces one record and waits for the broker acknowledgement.
func (c *Client) Publish(ctx context.Context, key string, payload []byte) error {
	rec := &kgo.Record{Key: []byte(key), Value: payload}
	if err := c.cl.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", c.topic, err)
	}
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.cl.Ping(ctx)
}

func (c *Client) Close() {
	c.cl.Close()
}
