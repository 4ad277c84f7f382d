package entity

import (
	"time"
)

type MovieStatus string

const (
	MovieStatusReleased     MovieStatus = "Released"
	MovieStatusUpcoming     MovieStatus = "Upcoming"
	MovieStatusInProduction MovieStatus = "In Production"
)

// MovieStatuses lists every accepted status in display order
var MovieStatuses = []MovieStatus{
	MovieStatusReleased,
	MovieStatusUpcoming,
	MovieStatusInProduction,
}

func (s MovieStatus) Valid() bool {
	for _, status := range MovieStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Movie struct {
	ID        int64       `db:"id"`
	Name      string      `db:"name"`
	Date      time.Time   `db:"date"`
	Score     float64     `db:"score"`
	Overview  string      `db:"overview"`
	Status    MovieStatus `db:"status"`
	Budget    float64     `db:"budget"`
	Revenue   float64     `db:"revenue"`
	CountryID int64       `db:"country_id"`

	// Eager-loaded relations, nil/empty unless requested
	Country   *Country `db:"-"`
	Genres    []Lookup `db:"-"`
	Actors    []Lookup `db:"-"`
	Languages []Lookup `db:"-"`
}
