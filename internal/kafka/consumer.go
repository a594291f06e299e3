package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded booking event.
type EventHandler func(context.Context, BookingEvent) error

// Consumer reads booking events off a topic and delivers them decoded.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks, handing each booking event to the handler. It returns on
// read failure, context cancellation, or a handler error.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := dispatch(ctx, msg, handler); err != nil {
			return err
		}
	}
}

// dispatch decodes a raw message into a BookingEvent. Payloads that do not
// decode are dropped with a log line instead of wedging the consumer group.
func dispatch(ctx context.Context, msg kafka.Message, handler EventHandler) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("skipping undecodable booking event at offset %d: %v", msg.Offset, err)
		return nil
	}
	return handler(ctx, event)
}
