package updatemovie

import (
	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const commandType = "UpdateMovie"

// Command represents the intent to replace the mutable fields of a movie.
type Command struct {
	MovieID     uuid.UUID                `json:"id" validate:"required"`
	Version     recordstore.VersionToken `json:"version" validate:"required,min=1"`
	Title       string                   `json:"title" validate:"required,max=200"`
	Director    string                   `json:"director" validate:"max=100"`
	Genre       string                   `json:"genre" validate:"max=50"`
	Description string                   `json:"description" validate:"max=1000"`
	ReleaseYear *int                     `json:"releaseYear" validate:"omitnil,gt=1800,maxyearsahead=5"`
	Rating      *float64                 `json:"rating" validate:"omitnil,gte=0,lte=10"`
}

// CommandType returns the command type identifier for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	movieID uuid.UUID,
	version recordstore.VersionToken,
	title, director, genre, description string,
	releaseYear *int,
	rating *float64,
) Command {
	return Command{
		MovieID:     movieID,
		Version:     version,
		Title:       title,
		Director:    director,
		Genre:       genre,
		Description: description,
		ReleaseYear: releaseYear,
		Rating:      rating,
	}
}
