// Package events carries domain events between modules over watermill.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

const TopicBookingCompleted = "booking.completed"

type BookingCompleted struct {
	BookingID   int64     `json:"bookingId"`
	SkillID     int64     `json:"skillId"`
	StudentID   int64     `json:"studentId"`
	TutorID     int64     `json:"tutorId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Bus delivers events in-process through a gochannel pub/sub and, when an
// external publisher is set, mirrors them there as well.
type Bus struct {
	local    *gochannel.GoChannel
	external message.Publisher
	log      zerolog.Logger
}

func NewBus(log zerolog.Logger, external message.Publisher) *Bus {
	return &Bus{
		local:    gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, NewLogger(log)),
		external: external,
		log:      log,
	}
}

func (b *Bus) PublishBookingCompleted(_ context.Context, ev BookingCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", TopicBookingCompleted, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)

	if err := b.local.Publish(TopicBookingCompleted, msg); err != nil {
		return err
	}
	if b.external != nil {
		if err := b.external.Publish(TopicBookingCompleted, msg.Copy()); err != nil {
			b.log.Error().Err(err).Str("topic", TopicBookingCompleted).Msg("external publish failed")
		}
	}
	return nil
}

// SubscribeBookingCompleted calls handle for every event until ctx is done.
// Handler errors are logged; the message is acked either way so a failing
// side effect is not retried forever.
func (b *Bus) SubscribeBookingCompleted(ctx context.Context, handle func(context.Context, BookingCompleted) error) error {
	msgs, err := b.local.Subscribe(ctx, TopicBookingCompleted)
	if err != nil {
		return err
	}
	go func() {
		for msg := range msgs {
			var ev BookingCompleted
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.log.Error().Err(err).Str("message_uuid", msg.UUID).Msg("bad booking.completed payload")
				msg.Ack()
				continue
			}
			if err := handle(msg.Context(), ev); err != nil {
				b.log.Error().Err(err).Int64("booking_id", ev.BookingID).Msg("booking.completed handler failed")
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	var firstErr error
	if err := b.local.Close(); err != nil {
		firstErr = err
	}
	if b.external != nil {
		if err := b.external.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
