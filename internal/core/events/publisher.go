// Package events streams completed ledger transactions to Kafka. Publishing is
// best effort: a broker failure is logged by the caller and never rolls back
// the ledger operation.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/pkg/config"
)

func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{}, // key by wallet id to keep per-wallet order
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		MaxAttempts:  10,
	}
}

type TransactionPublisher struct {
	writer *kafka.Writer
}

func NewTransactionPublisher(writer *kafka.Writer) *TransactionPublisher {
	return &TransactionPublisher{writer: writer}
}

func (p *TransactionPublisher) Publish(ctx context.Context, t *models.Transaction) error {
	msgBytes, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventKey(t)),
		Value: msgBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to write transaction event to kafka: %w", err)
	}

	return nil
}

// eventKey picks the wallet that initiated the movement: the sender side when
// present, the receiver side for deposits.
func eventKey(t *models.Transaction) string {
	if t.SenderWalletID != nil {
		return t.SenderWalletID.String()
	}
	if t.ReceiverWalletID != nil {
		return t.ReceiverWalletID.String()
	}
	return t.ID.String()
}
