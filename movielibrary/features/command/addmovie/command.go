package addmovie

const commandType = "AddMovie"

// Command represents the intent to add a movie to the catalog.
type Command struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Director    string   `json:"director" validate:"max=100"`
	Genre       string   `json:"genre" validate:"max=50"`
	Description string   `json:"description" validate:"max=1000"`
	ReleaseYear *int     `json:"releaseYear" validate:"omitnil,gt=1800,maxyearsahead=5"`
	Rating      *float64 `json:"rating" validate:"omitnil,gte=0,lte=10"`
}

// CommandType returns the command type identifier for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(title, director, genre, description string, releaseYear *int, rating *float64) Command {
	return Command{
		Title:       title,
		Director:    director,
		Genre:       genre,
		Description: description,
		ReleaseYear: releaseYear,
		Rating:      rating,
	}
}
