package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/sale"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafka.Reader the listener needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

func NewKafkaReader(cfg *ReaderConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// SaleListener records checkouts published by remote terminals.
type SaleListener struct {
	reader MessageReader
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleListener(reader MessageReader, uc sale.UseCase, logger logger.ZapLogger) *SaleListener {
	return &SaleListener{
		reader: reader,
		uc:     uc,
		logger: logger,
	}
}

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("Starting Sale Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Sale Kafka Listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type SaleRequestedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	TerminalID     string            `json:"terminal_id"`
	UserID         string            `json:"user_id"`
	PaymentMethod  string            `json:"payment_method"`
	AmountReceived decimal.Decimal   `json:"amount_received"`
	Items          []SaleItemPayload `json:"items"`
}

type SaleItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	WeightKg  float64 `json:"weight_kg"`
}

func (l *SaleListener) processMessage(ctx context.Context, value []byte) {
	var event SaleRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "SaleRequested" {
		return
	}

	l.logger.Info("Processing SaleRequested event",
		zap.String("event_id", event.EventID),
		zap.String("terminal_id", event.Payload.TerminalID),
	)

	items := make([]dto.SaleItemInput, len(event.Payload.Items))
	for i, it := range event.Payload.Items {
		items[i] = dto.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, WeightKg: it.WeightKg}
	}

	s, err := l.uc.CreateSale(ctx, &dto.CreateSaleInput{
		UserID:         event.Payload.UserID,
		Items:          items,
		PaymentMethod:  event.Payload.PaymentMethod,
		AmountReceived: event.Payload.AmountReceived,
		// redelivered events return the sale recorded the first time
		ExternalRef: event.EventID,
	})
	if err != nil {
		l.logger.Error("Failed to record sale from terminal",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Recorded sale from terminal", zap.String("event_id", event.EventID), zap.String("sale_id", s.ID))
}
