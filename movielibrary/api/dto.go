package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

type movieDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	ReleaseYear *int      `json:"releaseYear,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     string    `json:"version"`
}

func toMovieDTO(m recordstore.Movie) movieDTO {
	return movieDTO{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Genre:       m.Genre,
		Description: m.Description,
		ReleaseYear: m.ReleaseYear,
		Rating:      m.Rating,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Version:     m.Version.String(),
	}
}

func toMovieDTOs(movies []recordstore.Movie) []movieDTO {
	dtos := make([]movieDTO, 0, len(movies))
	for _, m := range movies {
		dtos = append(dtos, toMovieDTO(m))
	}

	return dtos
}

type rentalDTO struct {
	ID           uuid.UUID  `json:"id"`
	MovieID      uuid.UUID  `json:"movieId"`
	CustomerName string     `json:"customerName"`
	ItemName     string     `json:"itemName"`
	RentalDate   time.Time  `json:"rentalDate"`
	ReturnDate   *time.Time `json:"returnDate"`
	DailyRate    float64    `json:"dailyRate"`
	Status       string     `json:"status"`
	Version      string     `json:"version"`
}

func toRentalDTO(r recordstore.Rental) rentalDTO {
	return rentalDTO{
		ID:           r.ID,
		MovieID:      r.MovieID,
		CustomerName: r.CustomerName,
		ItemName:     r.ItemName,
		RentalDate:   r.RentalDate,
		ReturnDate:   r.ReturnDate,
		DailyRate:    r.DailyRate.Float64(),
		Status:       string(r.Status),
		Version:      r.Version.String(),
	}
}

func toRentalDTOs(rentals []recordstore.Rental) []rentalDTO {
	dtos := make([]rentalDTO, 0, len(rentals))
	for _, r := range rentals {
		dtos = append(dtos, toRentalDTO(r))
	}

	return dtos
}

type movieRequest struct {
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Genre       string   `json:"genre"`
	Description string   `json:"description"`
	ReleaseYear *int     `json:"releaseYear"`
	Rating      *float64 `json:"rating"`
}

type updateMovieRequest struct {
	movieRequest
	Version string `json:"version"`
}

type createRentalRequest struct {
	MovieID      uuid.UUID `json:"movieId"`
	CustomerName string    `json:"customerName"`
	RentalDate   time.Time `json:"rentalDate"`
	DailyRate    float64   `json:"dailyRate"`
}

type returnRentalRequest struct {
	Version    string    `json:"version"`
	ReturnDate time.Time `json:"returnDate"`
}

type addMovieResponse struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Version string    `json:"version"`
	Message string    `json:"message"`
}

type updateMovieResponse struct {
	Success bool   `json:"success"`
	Version string `json:"version"`
	Message string `json:"message"`
}

type deleteMovieResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type createRentalResponse struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customerName"`
	MovieID      uuid.UUID `json:"movieId"`
	ItemName     string    `json:"itemName"`
	Version      string    `json:"version"`
	Message      string    `json:"message"`
}

type returnRentalResponse struct {
	rentalDTO
	TotalCost float64 `json:"totalCost"`
	Message   string  `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type fieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	Errors []fieldErrorDTO `json:"errors"`
}
