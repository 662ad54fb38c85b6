package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/logfields"
)

// BuildEvent is published after every daemon build attempt.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"` // success|failed|canceled
	Pages      int       `json:"pages"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher pushes build events onto a NATS subject. A nil Publisher is
// valid and publishes nothing, so callers can inject it optionally.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS using the event config. Returns an error
// when events are disabled; callers should check cfg.Enabled first.
func NewPublisher(cfg config.EventConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("events: publishing is disabled")
	}
	conn, err := nats.Connect(cfg.NATSURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("events: connect to NATS %s: %w", cfg.NATSURL, err)
	}
	slog.Info("Build event publisher connected", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// Publish sends one build event. Publish failures are logged, not fatal:
// event delivery must never fail a build.
func (p *Publisher) Publish(ev BuildEvent) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Warn("Failed to marshal build event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish build event", logfields.BuildID(ev.BuildID), logfields.Error(err))
	}
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
