package shell_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
)

var validationNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type validatedCommand struct {
	Title       string    `json:"title" validate:"required,max=10"`
	ReleaseYear *int      `json:"releaseYear" validate:"omitnil,gt=1800,maxyearsahead=5"`
	Rating      *float64  `json:"rating" validate:"omitnil,gte=0,lte=10"`
	RentalDate  time.Time `json:"rentalDate" validate:"required,notfuturedays=1,notolderdays=365"`
}

func validCommand() validatedCommand {
	year := 1979
	rating := 8.5

	return validatedCommand{
		Title:       "Alien",
		ReleaseYear: &year,
		Rating:      &rating,
		RentalDate:  validationNow,
	}
}

func Test_Validator_Validate_AcceptsValidCommand(t *testing.T) {
	// arrange
	validator := shell.NewValidator(func() time.Time { return validationNow })

	// act
	err := validator.Validate(validCommand())

	// assert
	assert.NoError(t, err)
}

func Test_Validator_Validate_ReportsEveryViolation(t *testing.T) {
	// arrange
	validator := shell.NewValidator(func() time.Time { return validationNow })
	command := validCommand()
	command.Title = ""
	tooEarly := 1800
	command.ReleaseYear = &tooEarly

	// act
	err := validator.Validate(command)

	// assert
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrValidationFailed)
	assert.True(t, shell.IsValidationError(err))

	var validationErrors core.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.ElementsMatch(t, core.ValidationErrors{
		{Field: "title", Message: "Title is required"},
		{Field: "releaseYear", Message: "Release year must be greater than 1800"},
	}, validationErrors)
}

func Test_Validator_Validate_FieldRules(t *testing.T) {
	yearTooFarAhead := validationNow.Year() + 6
	yearAtLimit := validationNow.Year() + 5
	negativeRating := -0.5

	testCases := []struct {
		name          string
		mutate        func(c *validatedCommand)
		expectedField string
		expectedMsg   string
	}{
		{
			name:          "title too long",
			mutate:        func(c *validatedCommand) { c.Title = "Alien Resurrection" },
			expectedField: "title",
			expectedMsg:   "Title cannot exceed 10 characters",
		},
		{
			name:          "release year too far ahead",
			mutate:        func(c *validatedCommand) { c.ReleaseYear = &yearTooFarAhead },
			expectedField: "releaseYear",
			expectedMsg:   "Release year cannot be more than 5 years in the future",
		},
		{
			name:   "release year at limit",
			mutate: func(c *validatedCommand) { c.ReleaseYear = &yearAtLimit },
		},
		{
			name:   "release year absent",
			mutate: func(c *validatedCommand) { c.ReleaseYear = nil },
		},
		{
			name:          "negative rating",
			mutate:        func(c *validatedCommand) { c.Rating = &negativeRating },
			expectedField: "rating",
			expectedMsg:   "Rating must be at least 0",
		},
		{
			name:          "rental date missing",
			mutate:        func(c *validatedCommand) { c.RentalDate = time.Time{} },
			expectedField: "rentalDate",
			expectedMsg:   "Rental date is required",
		},
		{
			name:          "rental date more than one day ahead",
			mutate:        func(c *validatedCommand) { c.RentalDate = validationNow.Add(25 * time.Hour) },
			expectedField: "rentalDate",
			expectedMsg:   "Rental date cannot be more than 1 day(s) in the future",
		},
		{
			name:   "rental date within one day ahead",
			mutate: func(c *validatedCommand) { c.RentalDate = validationNow.Add(23 * time.Hour) },
		},
		{
			name:          "rental date older than a year",
			mutate:        func(c *validatedCommand) { c.RentalDate = validationNow.AddDate(0, 0, -366) },
			expectedField: "rentalDate",
			expectedMsg:   "Rental date cannot be more than 365 days in the past",
		},
	}

	validator := shell.NewValidator(func() time.Time { return validationNow })

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			command := validCommand()
			tc.mutate(&command)

			// act
			err := validator.Validate(command)

			// assert
			if tc.expectedField == "" {
				assert.NoError(t, err)
				return
			}

			var validationErrors core.ValidationErrors
			require.True(t, errors.As(err, &validationErrors))
			assert.Equal(t, core.ValidationErrors{{Field: tc.expectedField, Message: tc.expectedMsg}}, validationErrors)
		})
	}
}
