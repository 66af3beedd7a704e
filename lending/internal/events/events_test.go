package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/events"
	"github.com/Astemirdum/lending-service/lending/internal/model"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	event := model.LendingEvent{
		ID:        "e1",
		Type:      model.EventBookBorrowed,
		PatronID:  "123456",
		BookID:    7,
		Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("ok", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, cfg)
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got model.LendingEvent
			if err := jsoniter.ConfigFastest.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.Type != model.EventBookBorrowed || got.PatronID != "123456" || got.BookID != 7 {
				return errors.New("unexpected event")
			}
			return nil
		})
		pub := events.NewKafkaPublisher(producer, "lending-test", zap.NewNop())
		require.NoError(t, pub.Publish(context.Background(), event))
		require.NoError(t, producer.Close())
	})

	t.Run("producer failure", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, cfg)
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
		pub := events.NewKafkaPublisher(producer, "", zap.NewNop())
		require.ErrorIs(t, pub.Publish(context.Background(), event), sarama.ErrOutOfBrokers)
		require.NoError(t, producer.Close())
	})
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()
	require.NoError(t, events.NewNopPublisher().Publish(context.Background(), model.LendingEvent{}))
}
