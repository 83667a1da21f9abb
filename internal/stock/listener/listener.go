package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/AbsonDev/estoque-max/internal/stock"
	"github.com/AbsonDev/estoque-max/internal/stock/dto"
	"github.com/AbsonDev/estoque-max/pkg/broker"
	"github.com/AbsonDev/estoque-max/pkg/logger"
)

// ConsumptionListener funnels consumption events published by other surfaces
// (mobile app backend, voice assistant bridge) into the ledger write path.
type ConsumptionListener struct {
	consumer *broker.KafkaConsumer
	uc       stock.UseCase
	logger   logger.Logger
}

func NewConsumptionListener(consumer *broker.KafkaConsumer, uc stock.UseCase, log logger.Logger) *ConsumptionListener {
	return &ConsumptionListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *ConsumptionListener) Start(ctx context.Context) {
	l.logger.Info("starting consumption event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping consumption event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type ConsumptionEvent struct {
	EventID   string             `json:"event_id"`
	EventType string             `json:"event_type"`
	Payload   ConsumptionPayload `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

type ConsumptionPayload struct {
	StockItemID string `json:"stock_item_id"`
	UserID      string `json:"user_id"`
	Quantity    int    `json:"quantity"`
}

func (l *ConsumptionListener) processMessage(ctx context.Context, value []byte) {
	var event ConsumptionEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "ConsumptionRecorded" {
		return
	}

	_, err := l.uc.Consume(ctx, &dto.ConsumeInput{
		StockItemID: event.Payload.StockItemID,
		UserID:      event.Payload.UserID,
		Quantity:    event.Payload.Quantity,
	})
	if err != nil {
		// Validation rejects are expected traffic, storage errors are not.
		if errors.Is(err, stock.ErrInvalidQuantity) || errors.Is(err, stock.ErrInsufficientStock) {
			l.logger.Warn("rejected consumption event",
				zap.String("event_id", event.EventID),
				zap.String("stock_item_id", event.Payload.StockItemID),
				zap.Error(err),
			)
			return
		}
		l.logger.Error("failed to apply consumption event",
			zap.String("event_id", event.EventID),
			zap.String("stock_item_id", event.Payload.StockItemID),
			zap.Error(err),
		)
	}
}
