package people

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

// PersonService handles the roster: manual CRUD plus the bulk
// spreadsheet import.
type PersonService struct {
	personRepo repositories.PersonRepository
	logger     *zap.Logger
}

// NewPersonService creates a new PersonService instance
func NewPersonService(personRepo repositories.PersonRepository, logger *zap.Logger) *PersonService {
	return &PersonService{
		personRepo: personRepo,
		logger:     logger,
	}
}

// Create adds a person to the roster.
func (s *PersonService) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	if person.FirstName == "" || person.Surname == "" {
		return nil, services.ErrInvalidInput.WithDetail("field", "firstName/surname")
	}
	person.Living = models.NormalizeLiving(string(person.Living))

	id, err := s.personRepo.Create(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	person.ID = id

	s.logger.Info("person created",
		zap.String("id", id),
		zap.String("name", person.FullName()))
	return person, nil
}

// Get retrieves a person by id.
func (s *PersonService) Get(ctx context.Context, id string) (*models.Person, error) {
	return s.personRepo.GetByID(ctx, id)
}

// List retrieves the whole roster.
func (s *PersonService) List(ctx context.Context) ([]*models.Person, error) {
	return s.personRepo.List(ctx)
}

// Update replaces a person record.
func (s *PersonService) Update(ctx context.Context, person *models.Person) (*models.Person, error) {
	if person.FirstName == "" || person.Surname == "" {
		return nil, services.ErrInvalidInput.WithDetail("field", "firstName/surname")
	}
	if _, err := s.personRepo.GetByID(ctx, person.ID); err != nil {
		return nil, err
	}
	person.Living = models.NormalizeLiving(string(person.Living))

	if err := s.personRepo.Update(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	s.logger.Info("person updated", zap.String("id", person.ID))
	return person, nil
}

// Delete removes a person from the roster.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	if _, err := s.personRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.personRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("person deleted", zap.String("id", id))
	return nil
}
