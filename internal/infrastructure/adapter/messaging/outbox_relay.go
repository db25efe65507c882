package messaging

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/persistence"
)

// RelayConfig controls the outbox relay
type RelayConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// DefaultRelayConfig returns the relay settings used when none are configured
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		Interval:   time.Second,
		BatchSize:  100,
		MaxRetries: 10,
	}
}

// OutboxRelay moves events committed to the outbox table onto the broker.
// Delivery is at least once: a message is marked sent only after the broker accepted it.
type OutboxRelay struct {
	uow       persistence.UnitOfWork
	publisher coreport.MessagePublisher
	logger    coreport.Logger
	config    RelayConfig
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewOutboxRelay creates a new OutboxRelay
func NewOutboxRelay(uow persistence.UnitOfWork, publisher coreport.MessagePublisher, logger coreport.Logger, config RelayConfig) *OutboxRelay {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultRelayConfig().BatchSize
	}
	if config.Interval <= 0 {
		config.Interval = DefaultRelayConfig().Interval
	}
	return &OutboxRelay{
		uow:       uow,
		publisher: publisher,
		logger:    logger,
		config:    config,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start relays on every tick until ctx ends or Stop is called
func (r *OutboxRelay) Start(ctx context.Context) {
	defer close(r.done)

	r.logger.Info("Outbox relay started", map[string]any{
		"interval":   r.config.Interval.String(),
		"batch_size": r.config.BatchSize,
	})

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped by context", nil)
			return
		case <-r.stopCh:
			r.logger.Info("Outbox relay stopped", nil)
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

// drain relays batches until one comes back short or with a failed delivery.
// Failed messages wait for the next tick.
func (r *OutboxRelay) drain(ctx context.Context) {
	for {
		sent, err := r.RelayOnce(ctx)
		if err != nil || sent < r.config.BatchSize {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		default:
		}
	}
}

// Stop ends Start and waits for the current batch to finish
func (r *OutboxRelay) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.done
}

// RelayOnce publishes one batch of pending messages and returns how many the broker accepted
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	repo := r.uow.GetOutboxRepository(ctx)

	messages, err := repo.ListPending(ctx, r.config.BatchSize)
	if err != nil {
		r.logger.Error("Failed to read outbox", map[string]any{
			"error": err.Error(),
		})
		return 0, err
	}

	sent := 0
	for _, msg := range messages {
		fields := map[string]any{
			"message_id": msg.ID,
			"topic":      msg.Topic,
		}

		if err := r.publisher.Publish(ctx, msg.Topic, msg.MessageKey, []byte(msg.Payload)); err != nil {
			if incErr := repo.IncrementRetry(ctx, msg.ID); incErr != nil {
				fields["error"] = incErr.Error()
				r.logger.Error("Failed to record outbox retry", fields)
				return sent, incErr
			}

			fields["retry_count"] = msg.RetryCount + 1
			fields["error"] = err.Error()
			if r.config.MaxRetries > 0 && msg.RetryCount+1 >= r.config.MaxRetries {
				if failErr := repo.MarkFailed(ctx, msg.ID); failErr != nil {
					return sent, failErr
				}
				r.logger.Error("Outbox message failed permanently", fields)
				continue
			}
			r.logger.Warn("Outbox message delivery failed", fields)
			continue
		}

		if err := repo.MarkSent(ctx, msg.ID); err != nil {
			fields["error"] = err.Error()
			r.logger.Error("Failed to mark outbox message sent", fields)
			return sent, err
		}
		sent++
	}

	if len(messages) > 0 {
		r.logger.Debug("Outbox batch relayed", map[string]any{
			"count":  len(messages),
			"sent":   sent,
			"failed": len(messages) - sent,
		})
	}
	return sent, nil
}
