package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/checkout"
	"github.com/fekuna/omnipos-workshop-pos/internal/ledger"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/broker"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ReceiptListener indexes the receipt of every committed sale.
type ReceiptListener struct {
	consumer MessageReader
	uc       ledger.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewReceiptListener(consumer MessageReader, uc ledger.UseCase, log logger.ZapLogger) *ReceiptListener {
	return &ReceiptListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
		backoff:  time.Second,
	}
}

func (l *ReceiptListener) Start(ctx context.Context) {
	l.logger.Info("Starting receipt Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping receipt Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *ReceiptListener) processMessage(ctx context.Context, value []byte) {
	var env broker.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}
	if env.EventType != broker.EventTransactionCommitted {
		return
	}

	payload, err := broker.UnwrapPayload[checkout.CommittedPayload](env)
	if err != nil {
		l.logger.Error("Failed to decode TransactionCommitted payload",
			zap.String("event_id", env.EventID), zap.Error(err))
		return
	}

	l.logger.Info("Indexing receipt", zap.String("transaction_id", payload.Transaction.ID))
	if err := l.uc.IndexReceipt(ctx, &payload.Transaction); err != nil {
		l.logger.Error("Failed to index receipt",
			zap.String("transaction_id", payload.Transaction.ID),
			zap.Error(err),
		)
	}
}
