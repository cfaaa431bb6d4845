//go:build integration

package incident_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/store/incident"
	"licenseguard/internal/platform/config"
	"licenseguard/internal/platform/kafka"
	"licenseguard/pkg/testutil/containers"
)

func TestKafkaSinkDelivers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	broker := containers.GetManager().GetRedpanda(t)
	cfg := config.KafkaConfig{
		Brokers:           broker.Brokers,
		IncidentTopic:     "license.incidents.test",
		Partitions:        1,
		ReplicationFactor: 1,
	}

	producer, err := kafka.New(cfg)
	require.NoError(t, err)
	defer producer.Close()
	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg))
	require.NoError(t, kafka.EnsureTopic(ctx, producer, cfg), "second bootstrap is a no-op")

	inc, err := models.NewIncident("LIC-K", models.IncidentExcessiveFailures, models.SeverityMedium,
		"failures", "198.51.100.7", time.Now().UTC(), map[string]any{"count": 11})
	require.NoError(t, err)

	sink := incident.NewKafkaSink(producer, cfg.IncidentTopic)
	require.NoError(t, sink.Deliver(ctx, []*models.Incident{inc}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Brokers...),
		kgo.ConsumeTopics(cfg.IncidentTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	records := fetches.Records()
	require.NotEmpty(t, records)

	assert.Equal(t, "LIC-K", string(records[0].Key))
	var got models.Incident
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, inc.ID, got.ID)
	assert.Equal(t, models.IncidentExcessiveFailures, got.Type)
}
