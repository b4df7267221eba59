package messaging_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"social-media-service/internal/events"
	"social-media-service/internal/messaging"
	"social-media-service/internal/metrics"
	"social-media-service/testing/testnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerWithNATSContainer(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Publish_RoutesByEventType", func(t *testing.T) {
		producer, err := messaging.NewProducer(natsContainer.URL, "test.social", logger, metrics.NewMock())
		require.NoError(t, err)
		defer producer.Close()

		nc := natsContainer.Connect(t)
		received := make(chan *nats.Msg, 1)
		_, err = nc.Subscribe("test.social.message.created", func(msg *nats.Msg) {
			received <- msg
		})
		require.NoError(t, err)
		require.NoError(t, nc.Flush())

		event := events.New(events.MessageCreated, 5, map[string]interface{}{"message_text": "hi"})
		require.NoError(t, producer.Publish(context.Background(), event))

		select {
		case msg := <-received:
			var got events.Event
			require.NoError(t, json.Unmarshal(msg.Data, &got))
			assert.Equal(t, events.MessageCreated, got.Type)
			assert.Equal(t, "5", got.Key)
			assert.Equal(t, event.ID, got.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("event not received on NATS within timeout")
		}
	})

	t.Run("Publish_OtherSubjectsNotDelivered", func(t *testing.T) {
		producer, err := messaging.NewProducer(natsContainer.URL, "test.other", logger, metrics.NewMock())
		require.NoError(t, err)
		defer producer.Close()

		nc := natsContainer.Connect(t)
		received := make(chan *nats.Msg, 1)
		_, err = nc.Subscribe("test.other.message.deleted", func(msg *nats.Msg) {
			received <- msg
		})
		require.NoError(t, err)
		require.NoError(t, nc.Flush())

		require.NoError(t, producer.Publish(context.Background(), events.New(events.MessageUpdated, 1, nil)))

		select {
		case <-received:
			t.Fatal("unexpected event on deleted subject")
		case <-time.After(200 * time.Millisecond):
		}
	})
}

func TestNewProducer_Unreachable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := messaging.NewProducer("nats://127.0.0.1:1", "social", logger, metrics.NewMock())
	assert.Error(t, err)
}
