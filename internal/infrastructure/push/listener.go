package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edupay/internal/application/reconcile"
	"edupay/internal/common/logger"
	"edupay/internal/common/metrics"

	"github.com/google/uuid"
)

// Listener subscribes to the account's entity-changed events and routes
// them through the reconciler. Duplicate and out-of-order delivery are
// absorbed by the reconciler's version guard; the listener itself does no
// ordering.
type Listener struct {
	stream      Stream
	reconciler  *reconcile.Reconciler
	accountID   string
	deadLetters *DeadLetterBuffer
	logger      logger.Logger
	metrics     metrics.Collector

	cancel context.CancelFunc
}

func NewListener(stream Stream, rec *reconcile.Reconciler, accountID string, deadLetters *DeadLetterBuffer, l logger.Logger, collector metrics.Collector) *Listener {
	return &Listener{
		stream:      stream,
		reconciler:  rec,
		accountID:   accountID,
		deadLetters: deadLetters,
		logger:      l,
		metrics:     collector,
	}
}

// Start subscribes for the session's lifetime. The subscription is scoped:
// Stop (or cancelling the parent context) releases it deterministically.
func (l *Listener) Start(ctx context.Context) error {
	ctx, l.cancel = context.WithCancel(ctx)

	groupID := fmt.Sprintf("session-%s", l.accountID)
	if err := l.stream.Subscribe(ctx, groupID, l.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to push stream: %w", err)
	}

	l.logger.Info("Push listener started", logger.Field{Key: "account_id", Value: l.accountID})
	return nil
}

// Stop unsubscribes and closes the stream.
func (l *Listener) Stop() error {
	if l.cancel != nil {
		l.cancel()
	}
	return l.stream.Close()
}

func (l *Listener) handleMessage(ctx context.Context, payload []byte) error {
	var event EntityChanged
	if err := json.Unmarshal(payload, &event); err != nil {
		l.metrics.IncrementCounter(metrics.CounterPushEventsDeadLettered)
		l.deadLetters.Add(DeadLetter{
			ID:         uuid.New().String(),
			Payload:    payload,
			Reason:     err.Error(),
			ReceivedAt: time.Now(),
		})
		return fmt.Errorf("failed to decode push event: %w", err)
	}

	// The topic is shared; events for other accounts are not ours to apply
	if event.AccountID != l.accountID {
		return nil
	}

	result := l.reconciler.Apply(ctx, event.Snapshot())
	l.logger.Info("Push event reconciled",
		logger.Field{Key: "entity_id", Value: event.EntityID},
		logger.Field{Key: "version", Value: event.Version},
		logger.Field{Key: "result", Value: result})

	return nil
}
