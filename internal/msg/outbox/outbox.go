package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revjobs-messaging/internal/model"
	"revjobs-messaging/internal/repository"
	"revjobs-messaging/pkg/kafka"
)

const pipeBufferMultiplier = 5

type Repository interface {
	UpdateAsSent(ctx context.Context, ext repository.RepoExtension, messageID uuid.UUID) error
	SelectUnsentBatch(ctx context.Context, ext repository.RepoExtension, batchSize int) ([]model.OutboxMessage, error)
}

type Config struct {
	Name         string
	WorkerCount  int
	PollInterval time.Duration
	BatchSize    int
}

// Publisher drains the outbox table into the broker: a poll loop selects
// unsent rows and a worker pool pushes them, marking each row sent only
// after the broker acknowledged it. A row that fails stays unsent and is
// picked up again on a later poll.
type Publisher struct {
	log        *zap.Logger
	cfg        Config
	producer   kafka.Producer
	outboxRepo Repository
}

func NewPublisher(log *zap.Logger, cfg Config, producer kafka.Producer, outboxRepo Repository) *Publisher {
	return &Publisher{
		log:        log,
		cfg:        cfg,
		producer:   producer,
		outboxRepo: outboxRepo,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventPipe := make(chan model.OutboxMessage, p.cfg.BatchSize*pipeBufferMultiplier)

	for i := 0; i < p.cfg.WorkerCount; i++ {
		go p.worker(ctx, i, eventPipe)
	}

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Outbox publisher stopped", zap.String("name", p.cfg.Name))
			close(eventPipe)

			return
		case <-ticker.C:
			events, err := p.outboxRepo.SelectUnsentBatch(ctx, nil, p.cfg.BatchSize)
			if err != nil {
				p.log.Error("Failed to select unsent events", zap.Error(err))
				continue
			}

			for _, event := range events {
				eventPipe <- event
			}
		}
	}
}

func (p *Publisher) worker(ctx context.Context, id int, eventPipe <-chan model.OutboxMessage) {
	p.log.Info("Outbox worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Outbox worker stopping", zap.Int("worker_id", id))

			return
		case event, ok := <-eventPipe:
			if !ok {
				p.log.Info("Event pipe closed", zap.Int("worker_id", id))

				return
			}

			partition, offset, err := p.publishAndMark(ctx, event)
			if err != nil {
				p.log.Error("Failed to publish event",
					zap.String("event_id", event.ID.String()),
					zap.Error(err),
				)

				continue
			}

			p.log.Debug("Event published",
				zap.String("event_id", event.ID.String()),
				zap.String("topic", event.Topic),
				zap.Int32("partition", partition),
				zap.Int64("offset", offset),
			)
		}
	}
}

func (p *Publisher) publishAndMark(ctx context.Context, event model.OutboxMessage) (partition int32, offset int64, err error) {
	eventID, err := event.ID.MarshalBinary()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to marshal event id: %w", err)
	}

	partition, offset, err = p.producer.PushMessage(ctx, eventID, event.Payload, event.Topic)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to push event: %w", err)
	}

	if err := p.outboxRepo.UpdateAsSent(ctx, nil, event.ID); err != nil {
		return 0, 0, fmt.Errorf("failed to update as sent: %w", err)
	}

	return partition, offset, nil
}
