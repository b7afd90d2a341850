package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/events"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	bookID := 7
	due := model.NewDate(2024, time.March, 1)
	inst := model.BookInstance{
		ID:      uuid.MustParse("f7cdc58f-2caf-4b15-9727-f89dcc629b27"),
		BookID:  &bookID,
		Imprint: "Penguin, 2001",
		DueBack: &due,
		Status:  model.StatusOnLoan,
	}
	at := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		require.Equal(t, "catalog.instances", msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		require.Equal(t, inst.ID.String(), string(key))

		value, err := msg.Value.Encode()
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(value, &got))
		require.Equal(t, "instance.updated", got["type"])
		require.Equal(t, "o", got["status"])
		require.Equal(t, "2024-03-01", got["dueBack"])
		require.EqualValues(t, 7, got["bookId"])
		return nil
	})

	p := events.NewKafkaPublisher(producer, "catalog.instances", zap.NewNop())
	require.NoError(t, p.Publish(context.Background(), events.NewInstanceEvent(events.InstanceUpdated, inst, at)))
	require.NoError(t, p.Close())
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := events.NewKafkaPublisher(producer, "catalog.instances", zap.NewNop())
	err := p.Publish(context.Background(), events.Event{Type: events.InstanceDeleted, InstanceID: uuid.New()})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	require.NoError(t, events.NewNoopPublisher().Publish(context.Background(), events.Event{}))
}
