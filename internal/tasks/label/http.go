package label

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskora/taskora/internal/platform/middleware"
	requestutil "github.com/taskora/taskora/internal/platform/request"
	"github.com/taskora/taskora/internal/platform/respond"
	"github.com/taskora/taskora/internal/platform/validate"
)

type Handler struct {
	labelService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{labelService: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

type labelRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	labels, err := handler.labelService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, labels)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeLabel(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.labelService.Create(request.Context(), userID, input.Name, input.Color)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeLabel(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.labelService.Update(request.Context(), userID, requestutil.ID(request, "id"), input.Name, input.Color)
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

	if err := handler.labelService.Delete(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func decodeLabel(request *http.Request) (*labelRequest, error) {
	var input labelRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 60).
		MaxLen("color", input.Color, 16)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return &input, nil
}
