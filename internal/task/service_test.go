package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeStore is an in-memory, owner-scoped task store.
type fakeStore struct {
	tasks map[uuid.UUID]*Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[uuid.UUID]*Task)}
}

func (s *fakeStore) Create(_ context.Context, ownerID uuid.UUID, title string, description *string) (*Task, error) {
	now := time.Now()
	t := &Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *fakeStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*Task, error) {
	var out []*Task
	for _, t := range s.tasks {
		if t.UserID == ownerID {
			out = append(out, t)
		}
	}
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *fakeStore) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch Patch) (*Task, error) {
	t, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		if *patch.Description == "" {
			t.Description = nil
		} else {
			t.Description = patch.Description
		}
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = time.Now()
	return t, nil
}

func (s *fakeStore) ToggleCompleted(ctx context.Context, ownerID, taskID uuid.UUID) (*Task, error) {
	t, err := s.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
	return t, nil
}

func (s *fakeStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := s.GetByID(ctx, ownerID, taskID); err != nil {
		return err
	}
	delete(s.tasks, taskID)
	return nil
}

func strptr(s string) *string { return &s }

func TestCreateTrimsAndValidatesTitle(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "  buy milk  ", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Title != "buy milk" {
		t.Errorf("Title = %q, want %q", created.Title, "buy milk")
	}
	if created.Completed {
		t.Error("new task must start incomplete")
	}
	if created.UserID != owner {
		t.Errorf("UserID = %s, want %s", created.UserID, owner)
	}

	if _, err := svc.Create(ctx, owner, "   ", nil); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("whitespace title = %v, want ErrTitleRequired", err)
	}
	if _, err := svc.Create(ctx, owner, strings.Repeat("x", 201), nil); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("long title = %v, want ErrTitleTooLong", err)
	}
}

func TestCreateBoundsDescription(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()
	ctx := context.Background()

	long := strings.Repeat("d", 1001)
	if _, err := svc.Create(ctx, owner, "ok", &long); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("long description = %v, want ErrDescriptionTooLong", err)
	}

	// whitespace-only descriptions are stored as absent
	created, err := svc.Create(ctx, owner, "ok", strptr("   "))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Description != nil {
		t.Errorf("Description = %v, want nil", *created.Description)
	}
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "original", strptr("keep me"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(ctx, owner, created.ID, Patch{Title: strptr("  renamed  ")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "renamed" {
		t.Errorf("Title = %q, want %q", updated.Title, "renamed")
	}
	if updated.Description == nil || *updated.Description != "keep me" {
		t.Error("unsupplied description must be left untouched")
	}
	if updated.UserID != owner {
		t.Error("owner must never change on update")
	}

	if _, err := svc.Update(ctx, owner, created.ID, Patch{Title: strptr(" ")}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("blank title patch = %v, want ErrTitleRequired", err)
	}
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	ownerA := uuid.New()
	ownerB := uuid.New()

	created, err := svc.Create(ctx, ownerA, "a's task", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Get(ctx, ownerB, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, ownerB, created.ID, Patch{Title: strptr("stolen")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update = %v, want ErrNotFound", err)
	}
	if _, err := svc.ToggleCompleted(ctx, ownerB, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleCompleted = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, ownerB, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}

	listB, err := svc.List(ctx, ownerB)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listB) != 0 {
		t.Errorf("B's list contains %d tasks, want 0", len(listB))
	}

	// A's view is unaffected
	if _, err := svc.Get(ctx, ownerA, created.ID); err != nil {
		t.Errorf("A's Get failed: %v", err)
	}
}

func TestToggleCompletedIsInvolution(t *testing.T) {
	svc := NewService(newFakeStore())
	owner := uuid.New()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, "buy milk", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Completed {
		t.Fatal("new task must start incomplete")
	}

	once, err := svc.ToggleCompleted(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !once.Completed {
		t.Error("first toggle should complete the task")
	}

	twice, err := svc.ToggleCompleted(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if twice.Completed {
		t.Error("second toggle should return to incomplete")
	}
}

func TestListIsNewestFirst(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	owner := uuid.New()
	ctx := context.Background()

	first, _ := svc.Create(ctx, owner, "first", nil)
	store.tasks[first.ID].CreatedAt = time.Now().Add(-time.Hour)
	second, _ := svc.Create(ctx, owner, "second", nil)

	list, err := svc.List(ctx, owner)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Error("most recently created task must come first")
	}
}
