// internal/adapter/events/publisher.go

// Package events publishes pipeline events on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"emojimap/internal/domain/place"
)

// Conn is the subset of *nats.Conn used for publishing
type Conn interface {
	Publish(subject string, data []byte) error
}

// Config holds publisher settings
type Config struct {
	SubjectPrefix string
}

// Publisher implements place.EventPublisher on a NATS connection. A nil
// connection turns every publish into a no-op.
type Publisher struct {
	conn   Conn
	config Config
	now    func() time.Time
}

// NewPublisher creates a new publisher
func NewPublisher(conn Conn, config Config) *Publisher {
	if config.SubjectPrefix == "" {
		config.SubjectPrefix = "places"
	}
	return &Publisher{
		conn:   conn,
		config: config,
		now:    time.Now,
	}
}

// Subject returns the NATS subject for an event type
func (p *Publisher) Subject(t place.EventType) string {
	return fmt.Sprintf("%s.%s", p.config.SubjectPrefix, t)
}

// PublishSearch publishes a search.completed event
func (p *Publisher) PublishSearch(ctx context.Context, event place.SearchEvent) {
	if p.conn == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Type = place.EventSearchCompleted
	if event.Time.IsZero() {
		event.Time = p.now()
	}

	if err := p.publish(event.Type, event); err != nil {
		log.Printf("Error publishing search event %s: %v", event.ID, err)
	}
}

// PublishPhotos publishes a photos.fetched event
func (p *Publisher) PublishPhotos(ctx context.Context, event place.PhotosEvent) {
	if p.conn == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Type = place.EventPhotosFetched
	if event.Time.IsZero() {
		event.Time = p.now()
	}

	if err := p.publish(event.Type, event); err != nil {
		log.Printf("Error publishing photos event %s: %v", event.ID, err)
	}
}

func (p *Publisher) publish(t place.EventType, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(t), payload); err != nil {
		return fmt.Errorf("error publishing to %s: %w", p.Subject(t), err)
	}

	return nil
}
