package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
)

type Consumer struct {
	reader *kafka.Reader
	log    *logger.Logger
}

// NewConsumer creates a consumer for one ticket-event topic.
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, log: log}
}

// Start consumes ticket events until the context is cancelled, handing
// each decoded ticket to the handler.
func (c *Consumer) Start(ctx context.Context, handler func(ticket models.Ticket)) {
	c.log.LogKafka("START", c.reader.Config().Topic, "consumer running")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("KAFKA", "failed to read message: "+err.Error())
			continue
		}

		var ticket models.Ticket
		if err := json.Unmarshal(msg.Value, &ticket); err != nil {
			c.log.Warn("KAFKA", "failed to unmarshal ticket event: "+err.Error())
			continue
		}

		c.log.LogKafka("RECEIVE", c.reader.Config().Topic, ticket.PublicTicketID)
		handler(ticket)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
