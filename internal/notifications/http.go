// Copyright (c) 2026 Taskora. All rights reserved.
// Author: dev@taskora.app

package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskora/taskora/internal/platform/middleware"
	requestutil "github.com/taskora/taskora/internal/platform/request"
	"github.com/taskora/taskora/internal/platform/respond"
	"github.com/taskora/taskora/pkg/convert"
	"github.com/taskora/taskora/pkg/pagination"
)

// Handler implements notification HTTP endpoints. All routes require a session.
type Handler struct {
	notificationService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{notificationService: service}
}

// Routes returns a [chi.Router] with the notification endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/unread-count", handler.unreadCount)
	router.Post("/{id}/read", handler.markRead)
	router.Post("/read-all", handler.markAllRead)

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	unreadOnly := convert.ToBool(request.URL.Query().Get("unread"))
	notifications, meta, err := handler.notificationService.List(request.Context(), userID, unreadOnly, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notifications, meta)
}

func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.notificationService.CountUnread(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"unread": count})
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.notificationService.MarkRead(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) markAllRead(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.notificationService.MarkAllRead(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
