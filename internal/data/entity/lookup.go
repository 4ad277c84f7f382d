package entity

// Country is keyed by its code; the display name is optional.
type Country struct {
	ID   int64   `db:"id"`
	Code string  `db:"code"`
	Name *string `db:"name"`
}

// Lookup is a shared name-keyed row (genre, actor, language)
type Lookup struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
