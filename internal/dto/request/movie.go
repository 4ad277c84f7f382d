package request

// MovieRequest requires every key; text fields may be empty strings.
type MovieRequest struct {
	Name      *string  `json:"name" validate:"required,max=255"`
	Date      Date     `json:"date" validate:"required,release_window"`
	Score     *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Overview  *string  `json:"overview" validate:"required"`
	Status    string   `json:"status" validate:"required,movie_status"`
	Budget    *float64 `json:"budget" validate:"required,gte=0"`
	Revenue   *float64 `json:"revenue" validate:"required,gte=0"`
	Country   *string  `json:"country" validate:"required,max=3"`
	Genres    []string `json:"genres" validate:"dive,required,max=255"`
	Actors    []string `json:"actors" validate:"dive,required,max=255"`
	Languages []string `json:"languages" validate:"dive,required,max=255"`
}

// MovieUpdateRequest only touches fields present in the payload.
// Relations are not updatable here.
type MovieUpdateRequest struct {
	Name     Optional[string]  `json:"name" validate:"omitempty,max=255"`
	Date     Optional[Date]    `json:"date" validate:"omitempty,release_window"`
	Score    Optional[float64] `json:"score" validate:"omitempty,gte=0,lte=100"`
	Overview Optional[string]  `json:"overview"`
	Status   Optional[string]  `json:"status" validate:"omitempty,movie_status"`
	Budget   Optional[float64] `json:"budget" validate:"omitempty,gte=0"`
	Revenue  Optional[float64] `json:"revenue" validate:"omitempty,gte=0"`
}

// Empty reports a payload with no fields at all
func (r MovieUpdateRequest) Empty() bool {
	return !r.Name.Set && !r.Date.Set && !r.Score.Set && !r.Overview.Set &&
		!r.Status.Set && !r.Budget.Set && !r.Revenue.Set
}
