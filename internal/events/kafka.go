package events

import (
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

// NewKafkaPublisher builds the publisher external consumers read domain
// events from.
func NewKafkaPublisher(brokers []string, log zerolog.Logger) (message.Publisher, error) {
	return kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		NewLogger(log),
	)
}
