package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"thelife/observability"
)

const (
	StreamName    = "THELIFE_EVENTS"
	SubjectPrefix = "thelife.events"
)

// Subject is the JetStream subject an event type is published on
func Subject(t EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, t)
}

// Envelope wraps an event on the wire
type Envelope struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope marshals an event into its wire envelope
func NewEnvelope(e Event, now time.Time) (*Envelope, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", e.Type(), err)
	}
	return &Envelope{
		ID:         uuid.NewString(),
		Type:       e.Type(),
		OccurredAt: now,
		Payload:    payload,
	}, nil
}

// Publisher sends raw messages to a subject
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Forward subscribes to every event type on bus and publishes each committed
// event to its subject. Delivery failures are logged; the action has already
// committed and is not affected.
func Forward(bus *Bus, publisher Publisher) {
	for _, t := range AllEventTypes {
		bus.Subscribe(t, func(ctx context.Context, event Event) {
			env, err := NewEnvelope(event, time.Now().UTC())
			if err != nil {
				log.WithError(err).Error("Failed to build event envelope")
				return
			}
			data, err := json.Marshal(env)
			if err != nil {
				log.WithError(err).Error("Failed to marshal event envelope")
				return
			}

			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := publisher.Publish(pubCtx, Subject(event.Type()), data); err != nil {
				log.WithFields(log.Fields{
					"eventType": event.Type(),
					"eventID":   env.ID,
					"error":     err,
				}).Error("Failed to forward event")
				return
			}
			observability.EventsForwarded.WithLabelValues(string(event.Type())).Inc()
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"eventID":   env.ID,
			}).Debug("Forwarded event")
		})
	}
}

// NATSClient publishes events to NATS JetStream
type NATSClient struct {
	servers              string
	nc                   *nats.Conn
	js                   nats.JetStreamContext
	reconnectDelay       time.Duration
	maxReconnectAttempts int
}

// NewNATSClient creates a new NATS client
func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{
		servers:              servers,
		reconnectDelay:       2 * time.Second,
		maxReconnectAttempts: 10,
	}
}

// Connect establishes a connection to the NATS server and makes sure the
// event stream exists
func (c *NATSClient) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name("thelife"),
		nats.MaxReconnects(c.maxReconnectAttempts),
		nats.ReconnectWait(c.reconnectDelay),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(c.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream(nats.Context(ctx))
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.nc = nc
	c.js = js

	if err := c.ensureStream(); err != nil {
		nc.Close()
		return err
	}

	log.WithField("servers", c.servers).Info("Connected to NATS with JetStream")
	return nil
}

func (c *NATSClient) ensureStream() error {
	if _, err := c.js.StreamInfo(StreamName); err == nil {
		return nil
	}

	cfg := &nats.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   nats.LimitsPolicy,
		MaxAge:      24 * time.Hour,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: "Committed game events for notification consumers",
	}
	if _, err := c.js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}

	log.WithField("stream", StreamName).Info("Created JetStream stream")
	return nil
}

// Publish sends data to subject and waits for the stream acknowledgement
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}
	if _, err := c.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the connection
func (c *NATSClient) Close() error {
	if c.nc == nil {
		return nil
	}
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	log.Info("NATS connection closed")
	return nil
}
