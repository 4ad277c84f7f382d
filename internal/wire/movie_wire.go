package wire

import (
	"movie-catalog/internal/adaptor"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	config *utils.Config,
) {
	r.Route(config.App.BasePath+"/movies", func(r chi.Router) {
		r.Get("/", movieHandler.GetMovies)    // GET /movies/?page=&per_page=
		r.Post("/", movieHandler.CreateMovie) // POST /movies/

		r.Get("/{id}/", movieHandler.GetMovieByID)   // GET /movies/{id}/
		r.Patch("/{id}/", movieHandler.UpdateMovie)  // PATCH /movies/{id}/
		r.Delete("/{id}/", movieHandler.DeleteMovie) // DELETE /movies/{id}/
	})
}
