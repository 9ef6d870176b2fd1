package deletemovie

import "github.com/google/uuid"

const commandType = "DeleteMovie"

// Command represents the intent to remove a movie from the catalog.
type Command struct {
	MovieID uuid.UUID `json:"id" validate:"required"`
}

// CommandType returns the command type identifier for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(movieID uuid.UUID) Command {
	return Command{MovieID: movieID}
}
