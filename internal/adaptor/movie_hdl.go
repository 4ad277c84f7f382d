package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgInvalidInput  = "Invalid input data."
	msgInvalidID     = "Movie ID must be a positive integer."
	msgInvalidQuery  = "Query parameters page and per_page must be integers."
	msgMovieUpdated  = "Movie updated successfully."
	msgInternalError = "Internal server error"
)

type MovieHandler struct {
	service  usecase.MovieService
	linkPath string
	log      *zap.Logger
}

// NewMovieHandler builds the movie handler. basePath prefixes the list route in pagination links.
func NewMovieHandler(service usecase.MovieService, basePath string, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service:  service,
		linkPath: basePath + "/movies/",
		log:      log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /movies/?page=&per_page=
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := utils.ParseQueryInt(query.Get("page"), request.DefaultPage)
	if err != nil {
		utils.ResponseBadRequest(w, msgInvalidQuery, map[string]string{"page": err.Error()})
		return
	}
	perPage, err := utils.ParseQueryInt(query.Get("per_page"), request.DefaultPerPage)
	if err != nil {
		utils.ResponseBadRequest(w, msgInvalidQuery, map[string]string{"per_page": err.Error()})
		return
	}

	req := &request.PaginatedRequest{Page: page, PerPage: perPage}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgInvalidInput, validationErrors)
		return
	}

	movies, err := h.service.GetMovies(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, response.NewMoviesPage(movies, h.linkPath))
}

// GetMovieByID handles GET /movies/{id}/
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieID(w, r)
	if !ok {
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, r, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// CreateMovie handles POST /movies/
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("Create movie body rejected", zap.Error(err))
		utils.ResponseBadRequest(w, msgInvalidInput, map[string]string{"body": err.Error()})
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgInvalidInput, validationErrors)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, r, err, "create movie")
		return
	}

	utils.ResponseCreated(w, movie)
}

// UpdateMovie handles PATCH /movies/{id}/
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieID(w, r)
	if !ok {
		return
	}

	var req request.MovieUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("Update movie body rejected", zap.Error(err))
		utils.ResponseBadRequest(w, msgInvalidInput, map[string]string{"body": err.Error()})
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, msgInvalidInput, validationErrors)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), movieID, &req)
	if err != nil {
		h.handleServiceError(w, r, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, response.MovieUpdatedResponse{
		Detail: msgMovieUpdated,
		Movie:  movie,
	})
}

// DeleteMovie handles DELETE /movies/{id}/
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := h.movieID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteMovie(r.Context(), movieID); err != nil {
		h.handleServiceError(w, r, err, "delete movie")
		return
	}

	utils.ResponseNoContent(w)
}

func (h *MovieHandler) movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	movieID, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, msgInvalidID, map[string]string{"id": err.Error()})
		return 0, false
	}
	return movieID, true
}

// handleServiceError maps service error kinds to HTTP statuses
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	requestID, _ := utils.GetRequestIDFromContext(r.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("request_id", requestID),
	}

	detail := msgInternalError
	var svcErr *usecase.Error
	if errors.As(err, &svcErr) {
		detail = svcErr.Detail
	}

	switch {
	case errors.Is(err, usecase.ErrEmptyResult), errors.Is(err, usecase.ErrNotFound):
		h.log.Debug(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, detail)

	case errors.Is(err, usecase.ErrConflict):
		h.log.Warn(operation+" failed - already exists", fields...)
		utils.ResponseConflict(w, detail)

	case errors.Is(err, usecase.ErrInvalidInput):
		h.log.Warn("Invalid input for "+operation, fields...)
		utils.ResponseBadRequest(w, detail, nil)

	default:
		h.log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, msgInternalError)
	}
}
