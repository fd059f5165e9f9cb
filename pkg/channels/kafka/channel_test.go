package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/channels/kafka"
	kafkaTc "github.com/testcontainers/testcontainers-go/modules/kafka"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, kafka.ParseBrokers("a:9092, ,b:9092,"))
	assert.Empty(t, kafka.ParseBrokers(""))
}

func TestCreateChannel_NoBrokers(t *testing.T) {
	_, _, err := kafka.CreateChannel(watermill.NopLogger{}, nil, "teleboot-test")
	require.ErrorIs(t, err, kafka.ErrNoBrokers)
}

func TestCreateChannel_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Kafka container test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := kafkaTc.Run(ctx, "confluentinc/confluent-local:7.7.0")
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	pub, sub, err := kafka.CreateChannel(watermill.NopLogger{}, brokers, "teleboot-test")
	require.NoError(t, err)

	defer func() {
		assert.NoError(t, pub.Close())
		assert.NoError(t, sub.Close())
	}()

	const topic = "teleboot.test"

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{"type":"flow.created"}`))
	require.NoError(t, pub.Publish(topic, msg))

	messages, err := sub.Subscribe(ctx, topic)
	require.NoError(t, err)

	select {
	case received := <-messages:
		assert.Equal(t, msg.UUID, received.UUID)
		assert.JSONEq(t, `{"type":"flow.created"}`, string(received.Payload))
		received.Ack()
	case <-ctx.Done():
		t.Fatal("message was not consumed")
	}
}
