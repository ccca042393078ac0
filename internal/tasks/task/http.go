// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package task

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taskora/taskora/internal/platform/middleware"
	requestutil "github.com/taskora/taskora/internal/platform/request"
	"github.com/taskora/taskora/internal/platform/respond"
	"github.com/taskora/taskora/internal/platform/validate"
	"github.com/taskora/taskora/pkg/convert"
	"github.com/taskora/taskora/pkg/pagination"
	"github.com/taskora/taskora/pkg/query"
)

// Handler implements task HTTP endpoints. All routes require a session.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// Routes returns a [chi.Router] with the task endpoints.
//
// # Endpoints
//   - GET    /              : Filtered, paginated listing.
//   - POST   /              : Create a task (optionally a subtask).
//   - GET    /{id}          : Single task with labels.
//   - PATCH  /{id}          : Partial update including re-labelling.
//   - DELETE /{id}          : Delete the task and its subtree.
//   - POST   /{id}/complete : Mark done.
//   - POST   /{id}/reopen   : Back to todo.
//   - POST   /{id}/position : Manual reordering.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	router.Post("/{id}/complete", handler.complete)
	router.Post("/{id}/reopen", handler.reopen)
	router.Post("/{id}/position", handler.reorder)

	return router
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   *string    `json:"project_id"`
	ParentID    *string    `json:"parent_id"`
	Priority    *int       `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
	LabelIDs    []string   `json:"label_ids"`
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ProjectID   *string    `json:"project_id"`
	Status      *Status    `json:"status"`
	Priority    *int       `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
	ClearDueAt  bool       `json:"clear_due_at"`
	LabelIDs    []string   `json:"label_ids"`
}

type reorderRequest struct {
	Position int `json:"position"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{Search: request.URL.Query().Get("search")}
	queryParams := request.URL.Query()

	if value := queryParams.Get(FieldProjectID); value != "" {
		filter.ProjectID = &value
	}
	if value := queryParams.Get(FieldParentID); value != "" {
		filter.ParentID = &value
	}
	if value := queryParams.Get(FieldStatus); value != "" {
		status := Status(value)
		if !status.Valid() {
			respond.Error(writer, request, validate.RequiredError(FieldStatus, "must be one of todo, in_progress, done"))
			return
		}
		filter.Status = &status
	}
	if values := query.StringSlice(queryParams.Get("labels")); len(values) > 0 {
		filter.LabelIDs = values
	}
	if value := queryParams.Get("due_before"); value != "" {
		dueBefore, err := time.Parse(time.RFC3339, value)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError("due_before", "must be an RFC3339 timestamp"))
			return
		}
		filter.DueBefore = &dueBefore
	}
	filter.RootsOnly = convert.ToBool(queryParams.Get("roots_only"))

	tasks, meta, err := handler.taskService.List(request.Context(), userID, filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, meta)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 250).
		MaxLen(FieldDescription, input.Description, 10000)
	if input.Priority != nil {
		validator.Range(FieldPriority, *input.Priority, PriorityHighest, PriorityLowest)
	}
	if input.ProjectID != nil {
		validator.UUID(FieldProjectID, *input.ProjectID)
	}
	if input.ParentID != nil {
		validator.UUID(FieldParentID, *input.ParentID)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.taskService.Create(request.Context(), userID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		ParentID:    input.ParentID,
		Priority:    input.Priority,
		DueAt:       input.DueAt,
		LabelIDs:    input.LabelIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.taskService.Get(request.Context(), userID, requestutil.ID(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 250)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, 10000)
	}
	if input.Priority != nil {
		validator.Range(FieldPriority, *input.Priority, PriorityHighest, PriorityLowest)
	}
	if input.Status != nil && !input.Status.Valid() {
		validator.Custom(FieldStatus, true, "must be one of todo, in_progress, done")
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.taskService.Update(request.Context(), userID, requestutil.ID(request, FieldID), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		Status:      input.Status,
		Priority:    input.Priority,
		DueAt:       input.DueAt,
		ClearDueAt:  input.ClearDueAt,
		LabelIDs:    input.LabelIDs,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.taskService.Delete(request.Context(), userID, requestutil.ID(request, FieldID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.taskService.Complete)
}

func (handler *Handler) reopen(writer http.ResponseWriter, request *http.Request) {
	handler.runTransition(writer, request, handler.taskService.Reopen)
}

func (handler *Handler) reorder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(FieldPosition, input.Position < 1, "must be at least 1")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	moved, err := handler.taskService.Reorder(request.Context(), userID, requestutil.ID(request, FieldID), input.Position)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, moved)
}

type transitionFunc func(ctx context.Context, userID, id string) (*Task, error)

func (handler *Handler) runTransition(writer http.ResponseWriter, request *http.Request, transition transitionFunc) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	changed, err := transition(request.Context(), userID, requestutil.ID(request, FieldID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, changed)
}
