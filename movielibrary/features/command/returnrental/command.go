package returnrental

import (
	"time"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const commandType = "ReturnRental"

// Command represents the intent to return a rented movie.
type Command struct {
	RentalID   uuid.UUID                `json:"id" validate:"required"`
	Version    recordstore.VersionToken `json:"version" validate:"required,min=1"`
	ReturnDate time.Time                `json:"returnDate" validate:"required,notfuturedays=1"`
}

// CommandType returns the command type identifier for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(rentalID uuid.UUID, version recordstore.VersionToken, returnDate time.Time) Command {
	return Command{
		RentalID:   rentalID,
		Version:    version,
		ReturnDate: returnDate,
	}
}
