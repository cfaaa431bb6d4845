// Package kafka builds the franz-go client used by the incident stream.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"licenseguard/internal/platform/config"
)

// New returns a producer client with the incident topic as default. It returns nil
// when no brokers are configured.
func New(cfg config.KafkaConfig) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.IncidentTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopic creates the incident topic if it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig) error {
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopic(ctx, cfg.Partitions, cfg.ReplicationFactor, nil, cfg.IncidentTopic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", cfg.IncidentTopic, err)
	}
	return nil
}
