package events

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

// attendanceLeadWindow is how far before its start time an event opens
// for attendance marking.
const attendanceLeadWindow = time.Hour

const dateLayout = "2006-01-02"

// CreateInput carries the fields accepted when scheduling an event.
type CreateInput struct {
	Name      string
	Date      string
	StartTime *time.Time
}

// UpdateInput carries the mutable fields of a scheduled event. Nil
// pointers leave the stored value unchanged.
type UpdateInput struct {
	Name      *string
	Date      *string
	StartTime *time.Time
}

// EventService handles the event lifecycle and attendance marking.
type EventService struct {
	eventRepo   repositories.EventRepository
	personRepo  repositories.PersonRepository
	invoiceRepo repositories.InvoiceRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewEventService creates a new EventService instance
func NewEventService(
	eventRepo repositories.EventRepository,
	personRepo repositories.PersonRepository,
	invoiceRepo repositories.InvoiceRepository,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		personRepo:  personRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, input CreateInput) (*models.Event, error) {
	if input.Name == "" {
		return nil, services.ErrInvalidInput.WithDetail("field", "name")
	}
	if _, err := time.Parse(dateLayout, input.Date); err != nil {
		return nil, services.ErrInvalidDate.WithDetail("date", input.Date)
	}

	event := &models.Event{
		Name:      input.Name,
		Date:      input.Date,
		StartTime: input.StartTime,
		Attendees: []string{},
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	event.ID = id

	s.logger.Info("event created",
		zap.String("id", id),
		zap.String("name", event.Name),
		zap.String("date", event.Date))
	return event, nil
}

// Get retrieves an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// List retrieves all events.
func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.eventRepo.List(ctx)
}

// Update modifies an event that has not ended. Ended events are
// immutable.
func (s *EventService) Update(ctx context.Context, id string, input UpdateInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.IsEnded {
		return nil, services.ErrEventEnded.WithDetail("id", id)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, services.ErrInvalidInput.WithDetail("field", "name")
		}
		event.Name = *input.Name
	}
	if input.Date != nil {
		if _, err := time.Parse(dateLayout, *input.Date); err != nil {
			return nil, services.ErrInvalidDate.WithDetail("date", *input.Date)
		}
		event.Date = *input.Date
	}
	if input.StartTime != nil {
		event.StartTime = input.StartTime
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.logger.Info("event updated", zap.String("id", id))
	return event, nil
}

// End stamps the event's end time and freezes it. Ending an already
// ended event is a conflict.
func (s *EventService) End(ctx context.Context, id string) (*models.Event, error) {
	endTime := s.now()
	err := s.eventRepo.End(ctx, id, endTime, func(event *models.Event) error {
		if event.IsEnded {
			return services.ErrEventEnded.WithDetail("id", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event ended",
		zap.String("id", id),
		zap.Time("end_time", endTime))
	return s.eventRepo.GetByID(ctx, id)
}

// Delete removes an event and cascades to its invoices.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.invoiceRepo.DeleteByEventID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to cascade invoices: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("event deleted",
		zap.String("id", id),
		zap.Int("invoices_removed", removed))
	return nil
}

// EligibleForAttendance reports whether the event currently accepts
// attendance marking: not ended, has a start time, and that start time
// is no more than an hour away.
func (s *EventService) EligibleForAttendance(event *models.Event, now time.Time) bool {
	if event.IsEnded || event.StartTime == nil {
		return false
	}
	return !event.StartTime.After(now.Add(attendanceLeadWindow))
}

// EligibleEvents returns the events currently open for attendance
// marking.
func (s *EventService) EligibleEvents(ctx context.Context) ([]*models.Event, error) {
	all, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eligible := make([]*models.Event, 0)
	for _, event := range all {
		if s.EligibleForAttendance(event, now) {
			eligible = append(eligible, event)
		}
	}
	return eligible, nil
}

// ToggleAttendance flips the person's attendance on the event. Returns
// true when the person was marked present, false when unmarked.
func (s *EventService) ToggleAttendance(ctx context.Context, eventID, personID string) (bool, error) {
	if _, err := s.personRepo.GetByID(ctx, personID); err != nil {
		return false, err
	}

	now := s.now()
	added, err := s.eventRepo.ToggleAttendance(ctx, eventID, personID, func(event *models.Event) error {
		if event.IsEnded {
			return services.ErrEventEnded.WithDetail("id", eventID)
		}
		if !s.EligibleForAttendance(event, now) {
			return services.ErrAttendanceClosed.WithDetail("id", eventID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("attendance toggled",
		zap.String("event_id", eventID),
		zap.String("person_id", personID),
		zap.Bool("added", added))
	return added, nil
}

// Watch streams the event document as it changes.
func (s *EventService) Watch(ctx context.Context, id string) (<-chan *models.Event, error) {
	return s.eventRepo.Watch(ctx, id)
}
