package createrental

import (
	"time"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const commandType = "CreateRental"

// Command represents the intent to rent a movie to a customer.
type Command struct {
	MovieID      uuid.UUID         `json:"movieId" validate:"required"`
	CustomerName string            `json:"customerName" validate:"required,max=200"`
	RentalDate   time.Time         `json:"rentalDate" validate:"required,notfuturedays=1,notolderdays=365"`
	DailyRate    recordstore.Money `json:"dailyRate" validate:"gt=0,maxmoney=10000"`
}

// CommandType returns the command type identifier for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(movieID uuid.UUID, customerName string, rentalDate time.Time, dailyRate recordstore.Money) Command {
	return Command{
		MovieID:      movieID,
		CustomerName: customerName,
		RentalDate:   rentalDate,
		DailyRate:    dailyRate,
	}
}
