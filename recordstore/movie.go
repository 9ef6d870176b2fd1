package recordstore

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a catalog entry.
// ID and CreatedAt never change after Add. UpdatedAt and Version are maintained by the store.
type Movie struct {
	ID          uuid.UUID
	Title       string
	Director    string
	Genre       string
	Description string
	ReleaseYear *int
	Rating      *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     VersionToken
}

// Clone returns a deep copy of the movie.
func (m Movie) Clone() Movie {
	c := m
	c.Version = m.Version.Clone()

	if m.ReleaseYear != nil {
		year := *m.ReleaseYear
		c.ReleaseYear = &year
	}

	if m.Rating != nil {
		rating := *m.Rating
		c.Rating = &rating
	}

	return c
}

// ToTimestamp normalizes a time to UTC with microsecond precision, which is what all engines persist.
func ToTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
