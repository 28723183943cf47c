package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"movies-api/internal/dto/request"
	"movies-api/internal/usecase"
	"movies-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /movies, optionally filtered with ?genre=
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	var genre *string
	if g := strings.TrimSpace(r.URL.Query().Get("genre")); g != "" {
		genre = &g
	}

	movies, err := h.service.GetMovies(r.Context(), genre)
	if err != nil {
		h.handleServiceError(w, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovieByID handles GET /movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// CreateMovie handles POST /movies. Validation failures answer 422.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	req, validationErrors, err := request.DecodeMovie(r.Body)
	if err != nil {
		h.log.Debug("Malformed create body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(validationErrors) > 0 {
		h.log.Warn("Create movie validation failed", zap.Any("errors", validationErrors))
		utils.ResponseUnprocessable(w, "Validation failed", validationErrors)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// UpdateMovie handles PATCH /movies/{id}. Validation failures answer 400.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	req, validationErrors, err := request.DecodeMoviePatch(r.Body)
	if err != nil {
		h.log.Debug("Malformed update body", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if len(validationErrors) > 0 {
		h.log.Warn("Update movie validation failed",
			zap.String("movie_id", movieID),
			zap.Any("errors", validationErrors))
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), movieID, req)
	if err != nil {
		h.handleServiceError(w, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated successfully", movie)
}

// DeleteMovie handles DELETE /movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	if err := h.service.DeleteMovie(r.Context(), movieID); err != nil {
		h.handleServiceError(w, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted", nil)
}

// Preflight handles OPTIONS on the movie routes. CORS headers are set by
// the CORS middleware.
func (h *MovieHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleServiceError handles errors for movie operations
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrMovieNotFound):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, "Movie not found")

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
