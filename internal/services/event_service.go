package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/store"
)

// EventServiceProvider defines the interface for the activity log.
type EventServiceProvider interface {
	Record(eventType, level, message, actor string) error
	Recent(limit int) ([]models.Event, error)
}

// EventService keeps an append-only activity log of social actions.
type EventService struct {
	store *store.Store
	now   func() time.Time
}

// NewEventService creates a new EventService.
func NewEventService(st *store.Store) *EventService {
	return &EventService{store: st, now: time.Now}
}

// Record logs a new event.
func (s *EventService) Record(eventType, level, message, actor string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		Actor:     actor,
		CreatedAt: s.now().Unix(),
	}
	_, err := s.store.Insert(store.TableEvents, event)
	return err
}

// Recent returns the newest events, most recent first.
func (s *EventService) Recent(limit int) ([]models.Event, error) {
	records, err := s.store.All(store.TableEvents)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(records))
	// Scan order is oldest first; walk backwards.
	for i := len(records) - 1; i >= 0; i-- {
		var e models.Event
		if err := records[i].Decode(&e); err != nil {
			return nil, err
		}
		events = append(events, e)
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}
