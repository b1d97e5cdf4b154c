package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/bookings"
)

// HandleFunc processes a single bookings.Event from Kafka
type HandleFunc func(context.Context, bookings.Event) error

// newConsumerGroup is swapped in tests
var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and feeds booking events to a
// handler. A handler error stops the claim, so the message is redelivered;
// Permanent errors and malformed payloads are logged and committed.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler HandleFunc
	logger  logx.Logger
}

// NewConsumer creates a new Kafka consumer. With no brokers or topic
// configured it returns nil, and a nil Consumer is a no-op.
func NewConsumer(brokers []string, groupID, topic string, h HandleFunc, logger logx.Logger) (*Consumer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: h,
		logger:  logger,
	}, nil
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("kafka consume", logx.Any("err", err))
			time.Sleep(time.Second)
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json",
				logx.Int64("offset", msg.Offset),
				logx.Any("err", err),
			)
			sess.MarkMessage(msg, "")
			continue
		}
		ev := ToDomain(dto)
		if ev.BookingID == "" {
			h.c.logger.Warn("kafka empty booking_id", logx.Int64("offset", msg.Offset))
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			var perm PermanentError
			if errors.As(err, &perm) {
				h.c.logger.Error("kafka handle permanent failure",
					logx.String("booking_id", ev.BookingID),
					logx.String("status", ev.Status),
					logx.Any("err", err),
				)
				sess.MarkMessage(msg, "")
				continue
			}
			h.c.logger.Warn("kafka handle failed, message will be redelivered",
				logx.String("booking_id", ev.BookingID),
				logx.String("status", ev.Status),
				logx.Any("err", err),
			)
			return err
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}
