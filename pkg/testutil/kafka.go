// Package testutil holds helpers for integration tests that need real
// infrastructure. Tests using it carry the integration build tag and need a
// Docker daemon.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaImage is the single-node broker image used by StartKafka.
const KafkaImage = "confluentinc/confluent-local:7.6.1"

// Kafka is a running single-node broker.
type Kafka struct {
	Container *kafka.KafkaContainer
	Brokers   []string
}

// StartKafka starts a broker and terminates it when the test ends.
func StartKafka(ctx context.Context, t *testing.T) *Kafka {
	t.Helper()

	container, err := kafka.Run(ctx, KafkaImage, kafka.WithClusterID("problempulse-test"))
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to get kafka brokers: %v", err)
	}

	return &Kafka{Container: container, Brokers: brokers}
}
