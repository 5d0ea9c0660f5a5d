package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/metrics"
)

const publishTimeout = 5 * time.Second

// ErrPublisherBusy is returned when the outbound buffer is full.
var ErrPublisherBusy = errors.New("booking event buffer full")

// channel is the subset of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// EventPublisher sends booking events to a durable RabbitMQ queue. Publish
// only buffers; a single background loop talks to the broker so request
// handlers never wait on it.
type EventPublisher struct {
	ch     channel
	conn   *amqp.Connection
	queue  string
	events chan ports.BookingEvent
	done   chan struct{}
	log    zerolog.Logger
}

// DialEventPublisher connects to url and declares queue (durable).
func DialEventPublisher(url, queue string, buffer int, log zerolog.Logger) (*EventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	p := newEventPublisher(ch, queue, buffer, log)
	p.conn = conn
	return p, nil
}

func newEventPublisher(ch channel, queue string, buffer int, log zerolog.Logger) *EventPublisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &EventPublisher{
		ch:     ch,
		queue:  queue,
		events: make(chan ports.BookingEvent, buffer),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Publish buffers the event. It never blocks.
func (p *EventPublisher) Publish(_ context.Context, event ports.BookingEvent) error {
	select {
	case p.events <- event:
		return nil
	default:
		metrics.BookingEventsTotal.WithLabelValues("dropped").Inc()
		return ErrPublisherBusy
	}
}

// Run delivers buffered events until ctx is cancelled, then flushes what is
// left and closes the broker connection.
func (p *EventPublisher) Run(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			p.flush()
			p.close()
			return
		case event := <-p.events:
			p.send(event)
		}
	}
}

// Done is closed once Run has returned.
func (p *EventPublisher) Done() <-chan struct{} {
	return p.done
}

func (p *EventPublisher) flush() {
	for {
		select {
		case event := <-p.events:
			p.send(event)
		default:
			return
		}
	}
}

func (p *EventPublisher) send(event ports.BookingEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		metrics.BookingEventsTotal.WithLabelValues("failed").Inc()
		p.log.Error().Err(err).Str("booking_id", event.BookingID).Msg("marshal booking event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		MessageId:    event.BookingID + ":" + event.Type + ":" + event.OccurredAt.Format(time.RFC3339Nano),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		metrics.BookingEventsTotal.WithLabelValues("failed").Inc()
		p.log.Warn().Err(err).
			Str("booking_id", event.BookingID).
			Str("type", event.Type).
			Msg("publish booking event failed")
		return
	}
	metrics.BookingEventsTotal.WithLabelValues("published").Inc()
}

func (p *EventPublisher) close() {
	if err := p.ch.Close(); err != nil {
		p.log.Warn().Err(err).Msg("close amqp channel")
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.log.Warn().Err(err).Msg("close amqp connection")
		}
	}
}
