package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/campushq/eventdesk/models"
	"github.com/campushq/eventdesk/repositories"
	"github.com/campushq/eventdesk/services"
)

// PersonRepository implements repositories.PersonRepository on the people
// collection.
type PersonRepository struct {
	fs     *firestore.Client
	logger *zap.Logger
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(client *Client, logger *zap.Logger) repositories.PersonRepository {
	return &PersonRepository{
		fs:     client.Firestore(),
		logger: logger,
	}
}

// Create inserts a new person document
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) (string, error) {
	ref, _, err := r.fs.Collection(peopleCollection).Add(ctx, person)
	if err != nil {
		return "", fmt.Errorf("failed to create person: %w", err)
	}

	r.logger.Debug("person created", zap.String("id", ref.ID), zap.String("name", person.FullName()))
	return ref.ID, nil
}

// GetByID retrieves a person by document id
func (r *PersonRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	snap, err := r.fs.Collection(peopleCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, services.ErrPersonNotFound.WithDetail("id", id)
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	person := &models.Person{}
	if err := snap.DataTo(person); err != nil {
		return nil, fmt.Errorf("failed to decode person: %w", err)
	}
	person.ID = snap.Ref.ID
	return person, nil
}

// FindByName returns the first person matching firstName+surname
func (r *PersonRepository) FindByName(ctx context.Context, firstName, surname string) (*models.Person, error) {
	iter := r.fs.Collection(peopleCollection).
		Where("firstName", "==", firstName).
		Where("surname", "==", surname).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, services.ErrPersonNotFound.
			WithDetail("firstName", firstName).
			WithDetail("surname", surname)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query person by name: %w", err)
	}

	person := &models.Person{}
	if err := snap.DataTo(person); err != nil {
		return nil, fmt.Errorf("failed to decode person: %w", err)
	}
	person.ID = snap.Ref.ID
	return person, nil
}

// List retrieves the whole roster
func (r *PersonRepository) List(ctx context.Context) ([]*models.Person, error) {
	iter := r.fs.Collection(peopleCollection).Documents(ctx)
	defer iter.Stop()

	var people []*models.Person
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list people: %w", err)
		}

		person := &models.Person{}
		if err := snap.DataTo(person); err != nil {
			return nil, fmt.Errorf("failed to decode person: %w", err)
		}
		person.ID = snap.Ref.ID
		people = append(people, person)
	}

	return people, nil
}

// Update replaces a person document
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	_, err := r.fs.Collection(peopleCollection).Doc(person.ID).Set(ctx, person)
	if err != nil {
		if isNotFound(err) {
			return services.ErrPersonNotFound.WithDetail("id", person.ID)
		}
		return fmt.Errorf("failed to update person: %w", err)
	}
	return nil
}

// Merge updates only the given fields of a person document
func (r *PersonRepository) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := r.fs.Collection(peopleCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return services.ErrPersonNotFound.WithDetail("id", id)
		}
		return fmt.Errorf("failed to merge person fields: %w", err)
	}
	return nil
}

// Delete removes a person document
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	_, err := r.fs.Collection(peopleCollection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}

	r.logger.Debug("person deleted", zap.String("id", id))
	return nil
}
