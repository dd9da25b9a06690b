package publisher

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"

	"github.com/Jiommy31313/jimmyyy/internal/repository"
)

const saleTopic = "pos-sales"

// messageWriter is the part of kafka.Writer the poller needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains the sale outbox into Kafka. Events are written to the
// outbox in the sale transaction, so a publish failure only delays delivery;
// the row stays unprocessed and is retried on the next tick.
type OutboxPoller struct {
	timeout time.Duration
	tick    time.Duration
	repo    repository.RepoInterface
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker[any]
}

func NewOutboxPoller(repo repository.RepoInterface, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  saleTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	// The breaker keeps a dead broker from wedging every tick on timeouts.
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "kafka-sale-publisher",
		Timeout: 30 * time.Second,
	})
	return &OutboxPoller{
		timeout: 5 * time.Second,
		tick:    time.Second,
		repo:    repo,
		writer:  w,
		breaker: cb,
	}
}

func (p *OutboxPoller) Close() error {
	if c, ok := p.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		errPublish := p.publish(ctx, event)
		if errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		errMark := p.repo.MarkEventAsProcessed(ctx, event.ID)
		if errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // sale id for ordering
		Value: event.Payload,             // Already JSON from the database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	_, err := p.breaker.Execute(func() (any, error) {
		writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.writer.WriteMessages(writeCtx, msg)
	})
	return err
}
