package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskboard-io/taskboard/internal/auth"
	"github.com/taskboard-io/taskboard/internal/httputil"
	"github.com/taskboard-io/taskboard/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. All routes sit behind
// the auth middleware, so a principal is always present in the context; each
// handler logs through the request-scoped logger.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents the task creation request body. Any owner field
// in the payload is ignored; ownership comes from the principal.
type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// Create handles task creation
// @Summary      Create a task
// @Description  Create a new task owned by the authenticated user
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Task fields"
// @Success      201 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Failure      422 {object} httputil.Envelope "Validation error"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := auth.GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create task request body", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInvalidRequestBody, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), principal.ID, req.Title, req.Description)
	if err != nil {
		h.respondServiceError(w, logger, "create task", err)
		return
	}

	logger.Info("task created", "task_id", created.ID, "user_id", principal.ID)

	httputil.RespondData(w, created, "task created successfully", http.StatusCreated)
}

// List handles task listing
// @Summary      List tasks
// @Description  List the authenticated user's tasks, newest first
// @Tags         tasks
// @Produce      json
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, ok := auth.GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.List(r.Context(), principal.ID)
	if err != nil {
		h.respondServiceError(w, logger, "list tasks", err)
		return
	}

	httputil.RespondData(w, tasks, "", http.StatusOK)
}

// Get handles fetching a single task
// @Summary      Get a task
// @Description  Get one of the authenticated user's tasks by id
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Failure      404 {object} httputil.Envelope "Not found"
// @Router       /tasks/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), principal.ID, taskID)
	if err != nil {
		h.respondServiceError(w, logger, "get task", err)
		return
	}

	httputil.RespondData(w, found, "", http.StatusOK)
}

// Update handles partial task updates
// @Summary      Update a task
// @Description  Apply the supplied fields to one of the authenticated user's tasks
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        request body Patch true "Fields to update"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Failure      404 {object} httputil.Envelope "Not found"
// @Failure      422 {object} httputil.Envelope "Validation error"
// @Router       /tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn("invalid update task request body", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInvalidRequestBody, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), principal.ID, taskID, patch)
	if err != nil {
		h.respondServiceError(w, logger, "update task", err)
		return
	}

	logger.Info("task updated", "task_id", taskID, "user_id", principal.ID)

	httputil.RespondData(w, updated, "task updated successfully", http.StatusOK)
}

// Delete handles task deletion
// @Summary      Delete a task
// @Description  Permanently delete one of the authenticated user's tasks
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Failure      404 {object} httputil.Envelope "Not found"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.ID, taskID); err != nil {
		h.respondServiceError(w, logger, "delete task", err)
		return
	}

	logger.Info("task deleted", "task_id", taskID, "user_id", principal.ID)

	httputil.RespondData(w, nil, "task deleted successfully", http.StatusOK)
}

// ToggleComplete handles flipping the completion flag
// @Summary      Toggle task completion
// @Description  Flip the completion flag of one of the authenticated user's tasks
// @Tags         tasks
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} httputil.Envelope
// @Failure      401 {object} httputil.Envelope "Unauthenticated"
// @Failure      404 {object} httputil.Envelope "Not found"
// @Router       /tasks/{id}/complete [patch]
func (h *Handler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	principal, taskID, ok := h.principalAndTaskID(w, r)
	if !ok {
		return
	}

	toggled, err := h.service.ToggleCompleted(r.Context(), principal.ID, taskID)
	if err != nil {
		h.respondServiceError(w, logger, "toggle task completion", err)
		return
	}

	logger.Info("task completion toggled", "task_id", taskID, "user_id", principal.ID, "completed", toggled.Completed)

	httputil.RespondData(w, toggled, "task updated successfully", http.StatusOK)
}

// principalAndTaskID resolves the request principal and the {id} path
// parameter. An unparseable id is reported as not-found, the same as any
// other id the caller does not own.
func (h *Handler) principalAndTaskID(w http.ResponseWriter, r *http.Request) (auth.Principal, uuid.UUID, bool) {
	principal, ok := auth.GetPrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, httputil.CodeUnauthenticated, "authentication required", http.StatusUnauthorized)
		return auth.Principal{}, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, httputil.CodeNotFound, "task not found", http.StatusNotFound)
		return auth.Principal{}, uuid.Nil, false
	}

	return principal, taskID, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondError(w, httputil.CodeNotFound, "task not found", http.StatusNotFound)
	case IsValidationError(err):
		logger.Warn(op+" failed: validation error", "error", err.Error())
		httputil.RespondError(w, httputil.CodeValidationError, err.Error(), http.StatusUnprocessableEntity)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondError(w, httputil.CodeInternalError, "internal server error", http.StatusInternalServerError)
	}
}
