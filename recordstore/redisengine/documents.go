package redisengine

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type movieDocument struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	ReleaseYear *int      `json:"releaseYear,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func encodeMovie(m recordstore.Movie) ([]byte, error) {
	return json.Marshal(movieDocument{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Genre:       m.Genre,
		Description: m.Description,
		ReleaseYear: m.ReleaseYear,
		Rating:      m.Rating,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
}

func decodeMovie(data []byte, version []byte) (recordstore.Movie, error) {
	var doc movieDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return recordstore.Movie{}, err
	}

	return recordstore.Movie{
		ID:          doc.ID,
		Title:       doc.Title,
		Director:    doc.Director,
		Genre:       doc.Genre,
		Description: doc.Description,
		ReleaseYear: doc.ReleaseYear,
		Rating:      doc.Rating,
		CreatedAt:   recordstore.ToTimestamp(doc.CreatedAt),
		UpdatedAt:   recordstore.ToTimestamp(doc.UpdatedAt),
		Version:     recordstore.VersionToken(version).Clone(),
	}, nil
}

type rentalDocument struct {
	ID             uuid.UUID  `json:"id"`
	MovieID        uuid.UUID  `json:"movieId"`
	CustomerName   string     `json:"customerName"`
	ItemName       string     `json:"itemName"`
	RentalDate     time.Time  `json:"rentalDate"`
	ReturnDate     *time.Time `json:"returnDate,omitempty"`
	DailyRateCents int64      `json:"dailyRateCents"`
	Status         string     `json:"status"`
}

func encodeRental(r recordstore.Rental) ([]byte, error) {
	return json.Marshal(rentalDocument{
		ID:             r.ID,
		MovieID:        r.MovieID,
		CustomerName:   r.CustomerName,
		ItemName:       r.ItemName,
		RentalDate:     r.RentalDate,
		ReturnDate:     r.ReturnDate,
		DailyRateCents: int64(r.DailyRate),
		Status:         string(r.Status),
	})
}

func decodeRental(data []byte, version []byte) (recordstore.Rental, error) {
	var doc rentalDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return recordstore.Rental{}, err
	}

	rental := recordstore.Rental{
		ID:           doc.ID,
		MovieID:      doc.MovieID,
		CustomerName: doc.CustomerName,
		ItemName:     doc.ItemName,
		RentalDate:   recordstore.ToTimestamp(doc.RentalDate),
		DailyRate:    recordstore.Money(doc.DailyRateCents),
		Status:       recordstore.RentalStatus(doc.Status),
		Version:      recordstore.VersionToken(version).Clone(),
	}

	if doc.ReturnDate != nil {
		returned := recordstore.ToTimestamp(*doc.ReturnDate)
		rental.ReturnDate = &returned
	}

	return rental, nil
}
