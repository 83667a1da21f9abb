package kafka

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/AbsonDev/estoque-max/pkg/broker"
	"github.com/AbsonDev/estoque-max/pkg/logger"
)

// Notifier publishes change events keyed by pantry so consumers can fan them
// out to connected clients. Publish failures are logged and dropped; the core
// does not depend on delivery.
type Notifier struct {
	producer *broker.KafkaProducer
	logger   logger.Logger
}

func NewNotifier(producer *broker.KafkaProducer, log logger.Logger) *Notifier {
	return &Notifier{
		producer: producer,
		logger:   log,
	}
}

func (n *Notifier) Notify(ctx context.Context, pantryID string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("failed to marshal notification", zap.Error(err))
		return
	}

	if err := n.producer.Publish(ctx, []byte(pantryID), value); err != nil {
		n.logger.Warn("failed to publish notification",
			zap.String("pantry_id", pantryID),
			zap.Error(err),
		)
	}
}
