package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository"
	"github.com/helioscare/clinic-api/pkg/logger"
	"github.com/helioscare/clinic-api/pkg/messaging"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	Channel      string
}

// OutboxProcessor drains pending outbox rows and publishes them to the
// broker. Doctor events published here are consumed by API replicas to drop
// their cached doctors views.
type OutboxProcessor struct {
	repo   repository.OutboxRepository
	broker messaging.Broker
	config OutboxProcessorConfig
	logger *logger.Logger
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	return &OutboxProcessor{
		repo:   repo,
		broker: broker,
		config: config,
		logger: logger,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending events: %w", err)
	}

	for _, event := range events {
		message := messaging.Message{
			Type:    event.EventType,
			Payload: event.Payload,
		}
		if err := p.broker.Publish(ctx, p.config.Channel, message); err != nil {
			// Requeue until the retry budget is spent, then park as FAILED.
			status := model.OutboxStatusPending
			if event.RetryCount+1 >= p.config.MaxRetries {
				status = model.OutboxStatusFailed
			}
			errMsg := err.Error()
			if updateErr := p.repo.UpdateStatus(ctx, event.ID, status, &errMsg); updateErr != nil {
				p.logger.Error(updateErr, "failed to record publish failure", "event_id", event.ID.String())
			}
			continue
		}

		if err := p.repo.UpdateStatus(ctx, event.ID, model.OutboxStatusProcessed, nil); err != nil {
			p.logger.Error(err, "failed to mark event processed", "event_id", event.ID.String())
		}
	}

	return nil
}

// Cleanup removes processed events older than the retention window.
func (p *OutboxProcessor) Cleanup(ctx context.Context, retention time.Duration) error {
	deleted, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		p.logger.Info("cleaned up processed outbox events", "deleted", deleted)
	}
	return nil
}
