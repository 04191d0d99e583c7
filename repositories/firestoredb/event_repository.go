package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

// EventRepository implements repositories.EventRepository on the events
// collection. Lifecycle-sensitive writes (end, attendance toggle) run inside
// Firestore transactions so concurrent actors cannot race past the guards.
type EventRepository struct {
	fs     *firestore.Client
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(client *Client, logger *zap.Logger) repositories.EventRepository {
	return &EventRepository{
		fs:     client.Firestore(),
		logger: logger,
	}
}

// Create inserts a new event document
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (string, error) {
	ref, _, err := r.fs.Collection(eventsCollection).Add(ctx, event)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Debug("event created", zap.String("id", ref.ID), zap.String("name", event.Name))
	return ref.ID, nil
}

// GetByID retrieves an event by document id
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	snap, err := r.fs.Collection(eventsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, services.ErrEventNotFound.WithDetail("id", id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return decodeEvent(snap)
}

// List retrieves all events
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	iter := r.fs.Collection(eventsCollection).Documents(ctx)
	defer iter.Stop()

	var events []*models.Event
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		event, err := decodeEvent(snap)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// Update replaces an event document
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	_, err := r.fs.Collection(eventsCollection).Doc(event.ID).Set(ctx, event)
	if err != nil {
		if isNotFound(err) {
			return services.ErrEventNotFound.WithDetail("id", event.ID)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// End stamps endTime and flips isEnded after the guard approves the current
// document state.
func (r *EventRepository) End(ctx context.Context, id string, endTime time.Time, guard func(*models.Event) error) error {
	ref := r.fs.Collection(eventsCollection).Doc(id)

	return r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return services.ErrEventNotFound.WithDetail("id", id)
			}
			return fmt.Errorf("failed to get event: %w", err)
		}

		event, err := decodeEvent(snap)
		if err != nil {
			return err
		}
		if err := guard(event); err != nil {
			return err
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "endTime", Value: endTime},
			{Path: "isEnded", Value: true},
		})
	})
}

// ToggleAttendance flips the person's membership in the attendee set. The
// membership check and the array mutation happen in one transaction, so a
// pair of toggles always restores the original state even with concurrent
// writers on other fields.
func (r *EventRepository) ToggleAttendance(ctx context.Context, eventID, personID string, guard func(*models.Event) error) (bool, error) {
	ref := r.fs.Collection(eventsCollection).Doc(eventID)
	var added bool

	err := r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return services.ErrEventNotFound.WithDetail("id", eventID)
			}
			return fmt.Errorf("failed to get event: %w", err)
		}

		event, err := decodeEvent(snap)
		if err != nil {
			return err
		}
		if err := guard(event); err != nil {
			return err
		}

		added = !event.HasAttendee(personID)
		return tx.Update(ref, []firestore.Update{
			{Path: "attendees", Value: attendeeUpdateValue(personID, added)},
		})
	})
	if err != nil {
		return false, err
	}

	r.logger.Debug("attendance toggled",
		zap.String("event_id", eventID),
		zap.String("person_id", personID),
		zap.Bool("added", added))
	return added, nil
}

// Delete removes an event document
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.fs.Collection(eventsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	r.logger.Debug("event deleted", zap.String("id", id))
	return nil
}

// Watch streams document snapshots for one event. Best-effort freshness for
// the attendance dialog; the stream ends when the context is cancelled.
func (r *EventRepository) Watch(ctx context.Context, id string) (<-chan *models.Event, error) {
	// Verify the event exists before opening the stream.
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}

	snaps := r.fs.Collection(eventsCollection).Doc(id).Snapshots(ctx)
	ch := make(chan *models.Event)

	go func() {
		defer close(ch)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warn("event watch ended", zap.String("id", id), zap.Error(err))
				}
				return
			}
			if !snap.Exists() {
				// Deleted while being watched.
				return
			}

			event, err := decodeEvent(snap)
			if err != nil {
				r.logger.Warn("failed to decode watched event", zap.String("id", id), zap.Error(err))
				continue
			}

			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// attendeeUpdateValue picks the array transform for a toggle outcome. The two
// transforms are distinct unexported struct types, so the branch has to widen
// to any before it reaches firestore.Update.
func attendeeUpdateValue(personID string, added bool) any {
	if added {
		return firestore.ArrayUnion(personID)
	}
	return firestore.ArrayRemove(personID)
}

func decodeEvent(snap *firestore.DocumentSnapshot) (*models.Event, error) {
	event := &models.Event{}
	if err := snap.DataTo(event); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	event.ID = snap.Ref.ID
	return event, nil
}
