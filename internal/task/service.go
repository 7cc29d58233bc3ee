package task

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	titleMaxLength       = 200
	descriptionMaxLength = 1000
)

var (
	ErrTitleRequired      = errors.New("title must not be empty")
	ErrTitleTooLong       = errors.New("title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 1000 characters")
)

// IsValidationError reports whether err maps to a 422 response.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrDescriptionTooLong)
}

// Store is the repository surface the service depends on.
type Store interface {
	Create(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error)
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch Patch) (*Task, error)
	ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// Service validates input and delegates to the owner-scoped store. The
// owner always comes from the resolved principal, never from the payload.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates and creates a task owned by the principal.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	description = normalizeDescription(description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, ownerID, title, description)
}

// List returns the principal's tasks, newest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Task, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns a single task or ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	return s.store.GetByID(ctx, ownerID, taskID)
}

// Update applies the supplied patch fields after validating them.
func (s *Service) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch Patch) (*Task, error) {
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		patch.Title = &trimmed
	}

	// An explicit empty description clears the field; the repository maps
	// it to NULL.
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
		if err := validateDescription(patch.Description); err != nil {
			return nil, err
		}
	}

	return s.store.Update(ctx, ownerID, taskID, patch)
}

// ToggleCompleted flips the completion flag.
func (s *Service) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	return s.store.ToggleCompleted(ctx, ownerID, taskID)
}

// Delete permanently removes a task.
func (s *Service) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.store.Delete(ctx, ownerID, taskID)
}

func validateTitle(trimmed string) error {
	if trimmed == "" {
		return ErrTitleRequired
	}
	if len(trimmed) > titleMaxLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateDescription(description *string) error {
	if description != nil && len(*description) > descriptionMaxLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// normalizeDescription maps empty/whitespace-only descriptions to NULL.
func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
