package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/createrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/returnrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/getrentalbyid"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/listrentals"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

func rentalSubject(id uuid.UUID) string {
	return "Rental with Id " + id.String()
}

func (a *API) listRentals(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	query := listrentals.Query{
		CustomerName: values.Get("customerName"),
		Status:       values.Get("status"),
	}

	if v := values.Get("movieId"); v != "" {
		movieID, err := uuid.Parse(v)
		if err != nil {
			a.writeError(w, r, badRequest("movieId", "Movie id must be a UUID"), "")
			return
		}
		query.MovieID = &movieID
	}

	result, err := a.handlers.ListRentals.Handle(r.Context(), query)
	if err != nil {
		a.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toRentalDTOs(result.Rentals))
}

func (a *API) getRental(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	rental, err := a.handlers.GetRentalByID.Handle(r.Context(), getrentalbyid.BuildQuery(id))
	if err != nil {
		a.writeError(w, r, err, rentalSubject(id))
		return
	}

	writeJSON(w, http.StatusOK, toRentalDTO(rental))
}

func (a *API) createRental(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := readJSON(r, &req); err != nil {
		a.writeError(w, r, badRequest("body", "Request body must be a JSON rental"), "")
		return
	}

	dailyRate, err := recordstore.MoneyFromFloat(req.DailyRate)
	if err != nil {
		a.writeError(w, r, badRequest("dailyRate", "Daily rate is out of range"), "")
		return
	}

	result, err := a.handlers.CreateRental.Handle(r.Context(), createrental.BuildCommand(
		req.MovieID, req.CustomerName, req.RentalDate, dailyRate,
	))
	if err != nil {
		a.writeError(w, r, err, movieSubject(req.MovieID))
		return
	}

	w.Header().Set("Location", "/api/rentals/"+result.Rental.ID.String())
	writeJSON(w, http.StatusCreated, createRentalResponse{
		ID:           result.Rental.ID,
		CustomerName: result.Rental.CustomerName,
		MovieID:      result.Rental.MovieID,
		ItemName:     result.Rental.ItemName,
		Version:      result.Rental.Version.String(),
		Message:      result.Message,
	})
}

func (a *API) returnRental(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}

	var req returnRentalRequest
	if err := readJSON(r, &req); err != nil {
		a.writeError(w, r, badRequest("body", "Request body must contain version and returnDate"), "")
		return
	}

	version, ok := a.versionToken(w, r, req.Version)
	if !ok {
		return
	}

	result, err := a.handlers.ReturnRental.Handle(r.Context(), returnrental.BuildCommand(id, version, req.ReturnDate))
	if err != nil {
		a.writeError(w, r, err, rentalSubject(id))
		return
	}

	writeJSON(w, http.StatusOK, returnRentalResponse{
		rentalDTO: toRentalDTO(result.Rental),
		TotalCost: result.TotalCost.Float64(),
		Message:   result.Message,
	})
}
