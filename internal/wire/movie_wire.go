package wire

import (
	"movies-api/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Route("/movies", func(r chi.Router) {
		// GET /movies?genre= - list, optionally filtered by genre
		r.Get("/", movieHandler.GetMovies)
		r.Post("/", movieHandler.CreateMovie)
		r.Options("/", movieHandler.Preflight)

		r.Get("/{id}", movieHandler.GetMovieByID)
		r.Patch("/{id}", movieHandler.UpdateMovie)
		r.Delete("/{id}", movieHandler.DeleteMovie)
		// Browser preflight for PATCH/DELETE
		r.Options("/{id}", movieHandler.Preflight)
	})
}
