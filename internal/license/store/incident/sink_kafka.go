package incident

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"licenseguard/internal/license/models"
)

// KafkaSink publishes incidents as JSON records keyed by license key, so a
// license's incidents stay ordered within one partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

func NewKafkaSink(client *kgo.Client, topic string) *KafkaSink {
	return &KafkaSink{client: client, topic: topic}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Deliver(ctx context.Context, batch []*models.Incident) error {
	records := make([]*kgo.Record, 0, len(batch))
	for _, inc := range batch {
		value, err := json.Marshal(inc)
		if err != nil {
			return fmt.Errorf("marshal incident %s: %w", inc.ID, err)
		}
		records = append(records, &kgo.Record{
			Topic:     s.topic,
			Key:       []byte(inc.LicenseKey),
			Value:     value,
			Timestamp: inc.Timestamp,
			Headers: []kgo.RecordHeader{
				{Key: "incident_type", Value: []byte(inc.Type)},
				{Key: "severity", Value: []byte(inc.Severity)},
			},
		})
	}
	if err := s.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce incidents: %w", err)
	}
	return nil
}
