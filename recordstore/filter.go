package recordstore

import (
	"strings"

	"github.com/google/uuid"
)

/***** MovieFilter *****/

// MovieFilter holds AND-combined movie search criteria. An unset criterion does not filter.
type MovieFilter struct {
	title     string
	director  string
	genre     string
	minYear   *int
	maxYear   *int
	minRating *float64
}

func (f MovieFilter) Title() string {
	return f.title
}

func (f MovieFilter) Director() string {
	return f.director
}

func (f MovieFilter) Genre() string {
	return f.genre
}

func (f MovieFilter) MinYear() (int, bool) {
	if f.minYear == nil {
		return 0, false
	}

	return *f.minYear, true
}

func (f MovieFilter) MaxYear() (int, bool) {
	if f.maxYear == nil {
		return 0, false
	}

	return *f.maxYear, true
}

func (f MovieFilter) MinRating() (float64, bool) {
	if f.minRating == nil {
		return 0, false
	}

	return *f.minRating, true
}

// IsEmpty reports whether no criterion is set.
func (f MovieFilter) IsEmpty() bool {
	return f.title == "" && f.director == "" && f.genre == "" &&
		f.minYear == nil && f.maxYear == nil && f.minRating == nil
}

// Matches evaluates the filter against a movie in memory.
// Text criteria are case-insensitive substring matches, year bounds are inclusive.
// A movie without a release year (or rating) never satisfies a year (or rating) criterion.
func (f MovieFilter) Matches(m Movie) bool {
	if !containsFold(m.Title, f.title) || !containsFold(m.Director, f.director) || !containsFold(m.Genre, f.genre) {
		return false
	}

	if f.minYear != nil && (m.ReleaseYear == nil || *m.ReleaseYear < *f.minYear) {
		return false
	}

	if f.maxYear != nil && (m.ReleaseYear == nil || *m.ReleaseYear > *f.maxYear) {
		return false
	}

	if f.minRating != nil && (m.Rating == nil || *m.Rating < *f.minRating) {
		return false
	}

	return true
}

/***** MovieFilterBuilder *****/

// MovieFilterBuilder assembles a MovieFilter.
// Blank text criteria are ignored, so callers can pass optional request parameters straight through.
type MovieFilterBuilder struct {
	filter MovieFilter
}

// BuildMovieFilter starts an empty MovieFilter.
func BuildMovieFilter() *MovieFilterBuilder {
	return &MovieFilterBuilder{}
}

func (b *MovieFilterBuilder) WithTitle(title string) *MovieFilterBuilder {
	b.filter.title = sanitizeText(title)
	return b
}

func (b *MovieFilterBuilder) WithDirector(director string) *MovieFilterBuilder {
	b.filter.director = sanitizeText(director)
	return b
}

func (b *MovieFilterBuilder) WithGenre(genre string) *MovieFilterBuilder {
	b.filter.genre = sanitizeText(genre)
	return b
}

func (b *MovieFilterBuilder) WithMinYear(year int) *MovieFilterBuilder {
	b.filter.minYear = &year
	return b
}

func (b *MovieFilterBuilder) WithMaxYear(year int) *MovieFilterBuilder {
	b.filter.maxYear = &year
	return b
}

func (b *MovieFilterBuilder) WithMinRating(rating float64) *MovieFilterBuilder {
	b.filter.minRating = &rating
	return b
}

// Finalize returns the assembled filter.
func (b *MovieFilterBuilder) Finalize() MovieFilter {
	return b.filter
}

/***** RentalFilter *****/

// RentalFilter holds AND-combined rental search criteria. An unset criterion does not filter.
type RentalFilter struct {
	movieID      *uuid.UUID
	customerName string
	status       RentalStatus
}

func (f RentalFilter) MovieID() (uuid.UUID, bool) {
	if f.movieID == nil {
		return uuid.Nil, false
	}

	return *f.movieID, true
}

func (f RentalFilter) CustomerName() string {
	return f.customerName
}

func (f RentalFilter) Status() (RentalStatus, bool) {
	return f.status, f.status != ""
}

// Matches evaluates the filter against a rental in memory.
func (f RentalFilter) Matches(r Rental) bool {
	if f.movieID != nil && r.MovieID != *f.movieID {
		return false
	}

	if !containsFold(r.CustomerName, f.customerName) {
		return false
	}

	if f.status != "" && r.Status != f.status {
		return false
	}

	return true
}

/***** RentalFilterBuilder *****/

// RentalFilterBuilder assembles a RentalFilter.
type RentalFilterBuilder struct {
	filter RentalFilter
}

// BuildRentalFilter starts an empty RentalFilter.
func BuildRentalFilter() *RentalFilterBuilder {
	return &RentalFilterBuilder{}
}

func (b *RentalFilterBuilder) ForMovie(movieID uuid.UUID) *RentalFilterBuilder {
	b.filter.movieID = &movieID
	return b
}

func (b *RentalFilterBuilder) WithCustomerName(customerName string) *RentalFilterBuilder {
	b.filter.customerName = sanitizeText(customerName)
	return b
}

func (b *RentalFilterBuilder) WithStatus(status RentalStatus) *RentalFilterBuilder {
	b.filter.status = status
	return b
}

// Finalize returns the assembled filter.
func (b *RentalFilterBuilder) Finalize() RentalFilter {
	return b.filter
}

func sanitizeText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	return s
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return true
	}

	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
