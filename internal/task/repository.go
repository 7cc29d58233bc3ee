package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskboard-io/taskboard/internal/database"
)

// ErrNotFound covers both a genuinely missing task and a task owned by
// another user; callers cannot tell the two apart.
var ErrNotFound = errors.New("task not found")

// Repository handles task persistence. Every statement that touches an
// existing row is scoped by owner id, so cross-owner access produces the
// same zero-row result as absence.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task owned by ownerID.
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*Task, error) {
	dbTask := &database.Task{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// ListByOwner returns the owner's tasks, newest-created-first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Task, error) {
	var dbTasks []*database.Task
	err := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*Task, 0, len(dbTasks))
	for _, dbt := range dbTasks {
		tasks = append(tasks, mapDBTaskToModel(dbt))
	}

	return tasks, nil
}

// GetByID retrieves a single task scoped by owner.
func (r *Repository) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	dbTask := new(database.Task)
	err := r.db.NewSelect().
		Model(dbTask).
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// Update applies the non-nil patch fields in a single owner-scoped
// statement and refreshes updated_at.
func (r *Repository) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch Patch) (*Task, error) {
	dbTask := new(database.Task)
	q := r.db.NewUpdate().
		Model(dbTask).
		Set("updated_at = NOW()")

	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			q = q.Set("description = NULL")
		} else {
			q = q.Set("description = ?", *patch.Description)
		}
	}
	if patch.Completed != nil {
		q = q.Set("completed = ?", *patch.Completed)
	}

	result, err := q.
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// ToggleCompleted flips the completion flag in one owner-scoped statement.
func (r *Repository) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	dbTask := new(database.Task)
	result, err := r.db.NewUpdate().
		Model(dbTask).
		Set("completed = NOT completed").
		Set("updated_at = NOW()").
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task completion: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// Delete permanently removes an owner's task.
func (r *Repository) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.Task)(nil)).
		Where("id = ?", taskID).
		Where("user_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBTaskToModel converts database model to domain model
func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		UserID:      dbt.UserID,
		Title:       dbt.Title,
		Description: dbt.Description,
		Completed:   dbt.Completed,
		CreatedAt:   dbt.CreatedAt,
		UpdatedAt:   dbt.UpdatedAt,
	}
}
