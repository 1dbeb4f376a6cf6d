package mykafka

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil, DefaultTopics)
	require.Error(t, err)
}

func TestPublishEvent_UnknownTopic(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"}, DefaultTopics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	err = p.PublishEvent(context.Background(), "nope", "k", NewEvent("x", nil))
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.PublishEvent(context.Background(), TopicCardEvents, "k", NewEvent("cards_created", 3)))
	require.Len(t, r.Events, 1)
	assert.Equal(t, TopicCardEvents, r.Events[0].Topic)
	assert.Equal(t, "cards_created", r.Events[0].Event.(Event).Type)
}

// Needs a broker: KAFKA_ADDRESS=localhost:9092 go test ./internal/mykafka
func TestPublishEvent_Broker(t *testing.T) {
	addr := os.Getenv("KAFKA_ADDRESS")
	if addr == "" {
		t.Skip("KAFKA_ADDRESS not set")
	}

	p, err := NewProducer([]string{addr}, DefaultTopics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	key := "test-" + time.Now().UTC().Format("150405.000000")
	require.NoError(t, p.PublishEvent(ctx, TopicCardEvents, key, NewEvent("cards_deduplicated", map[string]int64{"removed": 1})))

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{addr},
		Topic:     TopicCardEvents,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.SetOffset(kafka.FirstOffset))

	for {
		msg, err := r.ReadMessage(ctx)
		require.NoError(t, err)
		if string(msg.Key) == key {
			assert.Contains(t, string(msg.Value), "cards_deduplicated")
			return
		}
	}
}
