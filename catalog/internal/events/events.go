package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/pkg/circuit_breaker"
)

type Type string

const (
	InstanceCreated Type = "instance.created"
	InstanceUpdated Type = "instance.updated"
	InstanceDeleted Type = "instance.deleted"
)

// Event describes a change to a loanable copy.
type Event struct {
	Type       Type         `json:"type"`
	InstanceID uuid.UUID    `json:"instanceId"`
	BookID     *int         `json:"bookId"`
	Status     model.Status `json:"status"`
	Borrower   *string      `json:"borrower"`
	DueBack    *model.Date  `json:"dueBack"`
	Timestamp  time.Time    `json:"timestamp"`
}

func NewInstanceEvent(t Type, inst model.BookInstance, at time.Time) Event {
	return Event{
		Type:       t,
		InstanceID: inst.ID,
		BookID:     inst.BookID,
		Status:     inst.Status,
		Borrower:   inst.Borrower,
		DueBack:    inst.DueBack,
		Timestamp:  at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(5, 30*time.Second, 2),
		log:      log.Named("events"),
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	value, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.InstanceID.String()),
		Value:     sarama.ByteEncoder(value),
		Timestamp: event.Timestamp,
	}
	return p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return errors.Wrap(err, "producer.SendMessage")
		}
		p.log.Debug("event published",
			zap.String("type", string(event.Type)),
			zap.Int32("partition", partition),
			zap.Int64("offset", offset))
		return nil
	})
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }
