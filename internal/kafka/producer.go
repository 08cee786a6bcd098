package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
)

// Producer streams ticket lifecycle events. In mock mode nothing is
// written; events are only logged, which keeps local development free of
// a broker.
type Producer struct {
	issuedWriter    *kafka.Writer
	checkedInWriter *kafka.Writer
	mockMode        bool
	log             *logger.Logger
}

func NewProducer(brokers []string, issuedTopic, checkedInTopic string, mockMode bool, log *logger.Logger) *Producer {
	p := &Producer{mockMode: mockMode, log: log}
	if !mockMode {
		p.issuedWriter = kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: issuedTopic})
		p.checkedInWriter = kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: checkedInTopic})
	}
	return p
}

func (p *Producer) PublishTicketIssued(ticket models.Ticket) error {
	return p.publish(p.issuedWriter, "ticket-issued", ticket)
}

func (p *Producer) PublishTicketCheckedIn(ticket models.Ticket) error {
	return p.publish(p.checkedInWriter, "ticket-checked-in", ticket)
}

func (p *Producer) publish(writer *kafka.Writer, event string, ticket models.Ticket) error {
	msgBytes, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	if p.mockMode {
		p.log.LogKafka("MOCK", event, string(msgBytes))
		return nil
	}
	p.log.LogKafka("PUBLISH", event, ticket.PublicTicketID)
	return writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(ticket.ID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	if p.issuedWriter != nil {
		if err := p.issuedWriter.Close(); err != nil {
			return err
		}
	}
	if p.checkedInWriter != nil {
		return p.checkedInWriter.Close()
	}
	return nil
}
