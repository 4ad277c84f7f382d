package response

import (
	"movie-catalog/internal/data/entity"
)

const dateLayout = "2006-01-02"

type MovieResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Overview string  `json:"overview"`
}

type CountryResponse struct {
	ID   int64   `json:"id"`
	Code string  `json:"code"`
	Name *string `json:"name"`
}

// LookupResponse is shared by genres, actors and languages
type LookupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovieDetailResponse struct {
	MovieResponse
	Status    string           `json:"status"`
	Budget    float64          `json:"budget"`
	Revenue   float64          `json:"revenue"`
	Country   *CountryResponse `json:"country"`
	Genres    []LookupResponse `json:"genres"`
	Actors    []LookupResponse `json:"actors"`
	Languages []LookupResponse `json:"languages"`
}

// MoviesPage is the list body: items plus navigation links
type MoviesPage struct {
	Movies     []MovieResponse `json:"movies"`
	PrevPage   *string         `json:"prev_page"`
	NextPage   *string         `json:"next_page"`
	TotalPages int             `json:"total_pages"`
	TotalItems int64           `json:"total_items"`
}

type MovieUpdatedResponse struct {
	Detail string               `json:"detail"`
	Movie  *MovieDetailResponse `json:"movie,omitempty"`
}

// NewMoviesPage shapes a paginated result; linkPath is the list route, e.g. /movies/
func NewMoviesPage(page *PaginatedResponse[MovieResponse], linkPath string) MoviesPage {
	meta := page.Pagination
	result := MoviesPage{
		Movies:     page.Data,
		TotalPages: meta.TotalPages,
		TotalItems: meta.Total,
	}
	if meta.HasPrev() {
		result.PrevPage = PageLink(linkPath, meta.Page-1, meta.PerPage)
	}
	if meta.HasNext() {
		result.NextPage = PageLink(linkPath, meta.Page+1, meta.PerPage)
	}
	return result
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:       movie.ID,
		Name:     movie.Name,
		Date:     movie.Date.Format(dateLayout),
		Score:    movie.Score,
		Overview: movie.Overview,
	}
}

func MovieToDetailResponse(movie *entity.Movie) MovieDetailResponse {
	detail := MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		Status:        string(movie.Status),
		Budget:        movie.Budget,
		Revenue:       movie.Revenue,
		Genres:        LookupsToResponse(movie.Genres),
		Actors:        LookupsToResponse(movie.Actors),
		Languages:     LookupsToResponse(movie.Languages),
	}
	if movie.Country != nil {
		detail.Country = &CountryResponse{
			ID:   movie.Country.ID,
			Code: movie.Country.Code,
			Name: movie.Country.Name,
		}
	}
	return detail
}

func LookupsToResponse(lookups []entity.Lookup) []LookupResponse {
	result := make([]LookupResponse, len(lookups))
	for i, lookup := range lookups {
		result[i] = LookupResponse{ID: lookup.ID, Name: lookup.Name}
	}
	return result
}
