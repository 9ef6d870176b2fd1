package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/addmovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/deletemovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/updatemovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/getmoviebyid"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/listmovies"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/searchmovies"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/core"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

func movieSubject(id uuid.UUID) string {
	return "Movie with Id " + id.String()
}

func (a *API) listMovies(w http.ResponseWriter, r *http.Request) {
	result, err := a.handlers.ListMovies.Handle(r.Context(), listmovies.Query{})
	if err != nil {
		a.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toMovieDTOs(result.Movies))
}

func (a *API) searchMovies(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	query := searchmovies.Query{
		Title:    values.Get("title"),
		Director: values.Get("director"),
		Genre:    values.Get("genre"),
	}

	var problems core.ValidationErrors

	if v := values.Get("minYear"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, core.ValidationError{Field: "minYear", Message: "Min year must be a whole number"})
		}
		query.MinYear = &year
	}

	if v := values.Get("maxYear"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, core.ValidationError{Field: "maxYear", Message: "Max year must be a whole number"})
		}
		query.MaxYear = &year
	}

	if v := values.Get("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			problems = append(problems, core.ValidationError{Field: "minRating", Message: "Min rating must be a number"})
		}
		query.MinRating = &rating
	}

	if len(problems) > 0 {
		a.writeError(w, r, problems, "")
		return
	}

	result, err := a.handlers.SearchMovies.Handle(r.Context(), query)
	if err != nil {
		a.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toMovieDTOs(result.Movies))
}

func (a *API) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	movie, err := a.handlers.GetMovieByID.Handle(r.Context(), getmoviebyid.BuildQuery(id))
	if err != nil {
		a.writeError(w, r, err, movieSubject(id))
		return
	}

	writeJSON(w, http.StatusOK, toMovieDTO(movie))
}

func (a *API) addMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := readJSON(r, &req); err != nil {
		a.writeError(w, r, badRequest("body", "Request body must be a JSON movie"), "")
		return
	}

	result, err := a.handlers.AddMovie.Handle(r.Context(), addmovie.BuildCommand(
		req.Title, req.Director, req.Genre, req.Description, req.ReleaseYear, req.Rating,
	))
	if err != nil {
		a.writeError(w, r, err, "")
		return
	}

	w.Header().Set("Location", "/api/movies/"+result.Movie.ID.String())
	writeJSON(w, http.StatusCreated, addMovieResponse{
		ID:      result.Movie.ID,
		Title:   result.Movie.Title,
		Version: result.Movie.Version.String(),
		Message: result.Message,
	})
}

func (a *API) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var req updateMovieRequest
	if err := readJSON(r, &req); err != nil {
		a.writeError(w, r, badRequest("body", "Request body must be a JSON movie"), "")
		return
	}

	version, ok := a.versionToken(w, r, req.Version)
	if !ok {
		return
	}

	result, err := a.handlers.UpdateMovie.Handle(r.Context(), updatemovie.BuildCommand(
		id, version, req.Title, req.Director, req.Genre, req.Description, req.ReleaseYear, req.Rating,
	))
	if err != nil {
		a.writeError(w, r, err, movieSubject(id))
		return
	}

	writeJSON(w, http.StatusOK, updateMovieResponse{
		Success: true,
		Version: result.Movie.Version.String(),
		Message: result.Message,
	})
}

func (a *API) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	result, err := a.handlers.DeleteMovie.Handle(r.Context(), deletemovie.BuildCommand(id))
	if err != nil {
		a.writeError(w, r, err, movieSubject(id))
		return
	}

	status := http.StatusOK
	if !result.Deleted {
		status = http.StatusNotFound
	}

	writeJSON(w, status, deleteMovieResponse{Success: result.Deleted, Message: result.Message})
}

func (a *API) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, badRequest("id", "Id must be a UUID"), "")
		return uuid.Nil, false
	}

	return id, true
}

// versionToken decodes the base64 token. An empty string yields nil, which validation reports as missing.
func (a *API) versionToken(w http.ResponseWriter, r *http.Request, encoded string) (recordstore.VersionToken, bool) {
	if encoded == "" {
		return nil, true
	}

	version, err := recordstore.ParseVersionToken(encoded)
	if err != nil {
		a.writeError(w, r, badRequest("version", "Version is malformed"), "")
		return nil, false
	}

	return version, true
}
