package events

import (
	"context"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/lending/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

//go:generate go run github.com/golang/mock/mockgen -source=events.go -destination=mocks/mock.go

type Publisher interface {
	Publish(ctx context.Context, event model.LendingEvent) error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
}

// NewKafkaPublisher sends events to topic, keyed by patron so a patron's events keep their order.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) Publisher {
	if topic == "" {
		topic = kafka.LendingTopic
	}
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log.Named("events"),
	}
}

func (p *kafkaPublisher) Publish(_ context.Context, event model.LendingEvent) error {
	data, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return err
	}
	key := event.PatronID
	if key == "" {
		key = event.TransactionID
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(event.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	p.log.Debug("event published",
		zap.String("type", string(event.Type)),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

type nopPublisher struct{}

// NewNopPublisher drops every event; used when no brokers are configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, model.LendingEvent) error {
	return nil
}
