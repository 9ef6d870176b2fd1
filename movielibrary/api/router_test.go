package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/api"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore/memoryengine"
	. "github.com/afarhat-dev/vertical-slice-poc/testutil/recordstore/helper" //nolint:revive
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type movieBody struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Genre       string    `json:"genre"`
	ReleaseYear *int      `json:"releaseYear"`
	Rating      *float64  `json:"rating"`
	Version     string    `json:"version"`
	Message     string    `json:"message"`
	Success     bool      `json:"success"`
}

type rentalBody struct {
	ID           uuid.UUID  `json:"id"`
	MovieID      uuid.UUID  `json:"movieId"`
	CustomerName string     `json:"customerName"`
	ItemName     string     `json:"itemName"`
	ReturnDate   *time.Time `json:"returnDate"`
	DailyRate    float64    `json:"dailyRate"`
	Status       string     `json:"status"`
	Version      string     `json:"version"`
	TotalCost    float64    `json:"totalCost"`
	Message      string     `json:"message"`
}

type validationBody struct {
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Message string `json:"message"`
}

func setupRouter(t *testing.T, opts ...api.Option) http.Handler {
	t.Helper()

	store, err := memoryengine.NewRecordStore(memoryengine.WithClock(FakeClock(now, time.Second)))
	require.NoError(t, err)

	handlers, err := app.NewHandlerBundle(store, app.ObservabilityConfig{}, func() time.Time { return now })
	require.NoError(t, err)

	router, err := api.NewRouter(handlers, opts...)
	require.NoError(t, err)

	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func givenMovieWasPosted(t *testing.T, router http.Handler, title string) movieBody {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/movies", map[string]any{
		"title":       title,
		"director":    "Ridley Scott",
		"genre":       "Science Fiction",
		"releaseYear": 1979,
		"rating":      8.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	return decode[movieBody](t, rec)
}

func Test_NewRouter_MissingHandler(t *testing.T) {
	// act
	_, err := api.NewRouter(api.Handlers{})

	// assert
	assert.ErrorIs(t, err, api.ErrMissingHandler)
}

func Test_Router_Movies_AddAndGet(t *testing.T) {
	// arrange
	router := setupRouter(t)

	// act
	added := givenMovieWasPosted(t, router, "Alien")
	rec := doRequest(t, router, http.MethodGet, "/api/movies/"+added.ID.String(), nil)

	// assert
	assert.Equal(t, "Movie added successfully", added.Message)
	assert.NotEmpty(t, added.Version)

	require.Equal(t, http.StatusOK, rec.Code)
	movie := decode[movieBody](t, rec)
	assert.Equal(t, "Alien", movie.Title)
	assert.Equal(t, added.Version, movie.Version)
	require.NotNil(t, movie.ReleaseYear)
	assert.Equal(t, 1979, *movie.ReleaseYear)
}

func Test_Router_Movies_AddSetsLocationHeader(t *testing.T) {
	// arrange
	router := setupRouter(t)

	// act
	rec := doRequest(t, router, http.MethodPost, "/api/movies", map[string]any{"title": "Alien"})

	// assert
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[movieBody](t, rec)
	assert.Equal(t, "/api/movies/"+added.ID.String(), rec.Header().Get("Location"))
}

func Test_Router_Movies_AddReportsValidationErrors(t *testing.T) {
	// arrange
	router := setupRouter(t)

	// act
	rec := doRequest(t, router, http.MethodPost, "/api/movies", map[string]any{"title": "", "rating": 11})

	// assert
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validationBody](t, rec)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "title", body.Errors[0].Field)
	assert.Equal(t, "Title is required", body.Errors[0].Message)
	assert.Equal(t, "rating", body.Errors[1].Field)
}

func Test_Router_Movies_GetUnknownID(t *testing.T) {
	// arrange
	router := setupRouter(t)
	id := GivenUniqueID(t)

	// act
	rec := doRequest(t, router, http.MethodGet, "/api/movies/"+id.String(), nil)

	// assert
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie with Id "+id.String()+" not found", decode[validationBody](t, rec).Message)
}

func Test_Router_Movies_GetMalformedID(t *testing.T) {
	// arrange
	router := setupRouter(t)

	// act
	rec := doRequest(t, router, http.MethodGet, "/api/movies/not-a-uuid", nil)

	// assert
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validationBody](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)
}

func Test_Router_Movies_UpdateWithCurrentVersion(t *testing.T) {
	// arrange
	router := setupRouter(t)
	added := givenMovieWasPosted(t, router, "Alien")

	// act
	rec := doRequest(t, router, http.MethodPut, "/api/movies/"+added.ID.String(), map[string]any{
		"title":   "Aliens",
		"version": added.Version,
	})

	// assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[movieBody](t, rec)
	assert.True(t, updated.Success)
	assert.Equal(t, "Movie updated successfully", updated.Message)
	assert.NotEqual(t, added.Version, updated.Version)

	stored := decode[movieBody](t, doRequest(t, router, http.MethodGet, "/api/movies/"+added.ID.String(), nil))
	assert.Equal(t, "Aliens", stored.Title)
	assert.Equal(t, updated.Version, stored.Version)
}

func Test_Router_Movies_UpdateWithStaleVersion(t *testing.T) {
	// arrange
	router := setupRouter(t)
	added := givenMovieWasPosted(t, router, "Alien")
	first := doRequest(t, router, http.MethodPut, "/api/movies/"+added.ID.String(), map[string]any{
		"title":   "Aliens",
		"version": added.Version,
	})
	require.Equal(t, http.StatusOK, first.Code)

	// act
	rec := doRequest(t, router, http.MethodPut, "/api/movies/"+added.ID.String(), map[string]any{
		"title":   "Alien 3",
		"version": added.Version,
	})

	// assert
	assert.Equal(t, http.StatusConflict, rec.Code)

	stored := decode[movieBody](t, doRequest(t, router, http.MethodGet, "/api/movies/"+added.ID.String(), nil))
	assert.Equal(t, "Aliens", stored.Title)
}

func Test_Router_Movies_UpdateWithMalformedVersion(t *testing.T) {
	// arrange
	router := setupRouter(t)
	added := givenMovieWasPosted(t, router, "Alien")

	// act
	rec := doRequest(t, router, http.MethodPut, "/api/movies/"+added.ID.String(), map[string]any{
		"title":   "Aliens",
		"version": "%%%",
	})

	// assert
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[validationBody](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "version", body.Errors[0].Field)
}

func Test_Router_Movies_UpdateUnknownID(t *testing.T) {
	// arrange
	router := setupRouter(t)
	added := givenMovieWasPosted(t, router, "Alien")
	id := GivenUniqueID(t)

	// act
	rec := doRequest(t, router, http.MethodPut, "/api/movies/"+id.String(), map[string]any{
		"title":   "Aliens",
		"version": added.Version,
	})

	// assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_Router_Movies_Delete(t *testing.T) {
	// arrange
	router := setupRouter(t)
	added := givenMovieWasPosted(t, router, "Alien")

	// act
	first := doRequest(t, router, http.MethodDelete, "/api/movies/"+added.ID.String(), nil)
	second := doRequest(t, router, http.MethodDelete, "/api/movies/"+added.ID.String(), nil)

	// assert
	require.Equal(t, http.StatusOK, first.Code)
	deleted := decode[movieBody](t, first)
	assert.True(t, deleted.Success)
	assert.Equal(t, "Movie deleted successfully", deleted.Message)

	require.Equal(t, http.StatusNotFound, second.Code)
	missing := decode[movieBody](t, second)
	assert.False(t, missing.Success)
	assert.Equal(t, "Movie with Id "+added.ID.String()+" not found", missing.Message)
}

func Test_Router_Movies_ListAndSearch(t *testing.T) {
	// arrange
	router := setupRouter(t)
	givenMovieWasPosted(t, router, "Alien")
	givenMovieWasPosted(t, router, "Blade Runner")

	// act
	all := doRequest(t, router, http.MethodGet, "/api/movies", nil)
	found := doRequest(t, router, http.MethodGet, "/api/movies/search?title=blade&minYear=1970&minRating=8", nil)

	// assert
	require.Equal(t, http.StatusOK, all.Code)
	assert.Len(t, decode[[]movieBody](t, all), 2)

	require.Equal(t, http.StatusOK, found.Code)
	movies := decode[[]movieBody](t, found)
	require.Len(t, movies, 1)
	assert.Equal(t, "Blade Runner", movies[0].Title)
}

func Test_Router_Movies_SearchRejectsInvalidYearRange(t *testing.T) {
	// arrange
	router := setupRouter(t)

	// act
	nonNumeric := doRequest(t, router, http.MethodGet, "/api/movies/search?minYear=soon", nil)
	inverted := doRequest(t, router, http.MethodGet, "/api/movies/search?minYear=2000&maxYear=1990", nil)

	// assert
	assert.Equal(t, http.StatusBadRequest, nonNumeric.Code)
	assert.Equal(t, "minYear", decode[validationBody](t, nonNumeric).Errors[0].Field)
	assert.Equal(t, http.StatusBadRequest, inverted.Code)
}

func Test_Router_Rentals_CreateAndReturn(t *testing.T) {
	// arrange
	router := setupRouter(t)
	movie := givenMovieWasPosted(t, router, "Alien")
	rentalDate := now.AddDate(0, 0, -2)

	// act
	created := doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
		"movieId":      movie.ID,
		"customerName": "Ellen Ripley",
		"rentalDate":   rentalDate,
		"dailyRate":    3.99,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	rental := decode[rentalBody](t, created)

	returned := doRequest(t, router, http.MethodPut, "/api/rentals/"+rental.ID.String()+"/return", map[string]any{
		"version":    rental.Version,
		"returnDate": rentalDate.Add(2 * time.Hour),
	})

	// assert
	assert.Equal(t, "Alien", rental.ItemName)
	assert.Equal(t, "Rental created successfully", rental.Message)

	require.Equal(t, http.StatusOK, returned.Code, returned.Body.String())
	result := decode[rentalBody](t, returned)
	assert.InDelta(t, 3.99, result.TotalCost, 0.0001)
	assert.Equal(t, "Returned", result.Status)
	assert.Equal(t, "Rental returned successfully", result.Message)
	require.NotNil(t, result.ReturnDate)
}

func Test_Router_Rentals_FiveDayReturn(t *testing.T) {
	// arrange
	router := setupRouter(t)
	movie := givenMovieWasPosted(t, router, "Alien")
	rentalDate := now.AddDate(0, 0, -6)
	created := doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
		"movieId":      movie.ID,
		"customerName": "Ellen Ripley",
		"rentalDate":   rentalDate,
		"dailyRate":    3.99,
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	rental := decode[rentalBody](t, created)

	// act
	returned := doRequest(t, router, http.MethodPut, "/api/rentals/"+rental.ID.String()+"/return", map[string]any{
		"version":    rental.Version,
		"returnDate": rentalDate.AddDate(0, 0, 5),
	})

	// assert
	require.Equal(t, http.StatusOK, returned.Code, returned.Body.String())
	assert.InDelta(t, 19.95, decode[rentalBody](t, returned).TotalCost, 0.0001)
}

func Test_Router_Rentals_SecondReturnIsRejected(t *testing.T) {
	// arrange
	router := setupRouter(t)
	movie := givenMovieWasPosted(t, router, "Alien")
	rentalDate := now.AddDate(0, 0, -2)
	rental := decode[rentalBody](t, doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
		"movieId":      movie.ID,
		"customerName": "Ellen Ripley",
		"rentalDate":   rentalDate,
		"dailyRate":    3.99,
	}))
	first := decode[rentalBody](t, doRequest(t, router, http.MethodPut, "/api/rentals/"+rental.ID.String()+"/return", map[string]any{
		"version":    rental.Version,
		"returnDate": rentalDate.AddDate(0, 0, 1),
	}))

	// act
	rec := doRequest(t, router, http.MethodPut, "/api/rentals/"+rental.ID.String()+"/return", map[string]any{
		"version":    first.Version,
		"returnDate": rentalDate.AddDate(0, 0, 1),
	})

	// assert
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rental has already been returned", decode[validationBody](t, rec).Message)
}

func Test_Router_Rentals_CreateForUnknownMovie(t *testing.T) {
	// arrange
	router := setupRouter(t)
	movieID := GivenUniqueID(t)

	// act
	rec := doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
		"movieId":      movieID,
		"customerName": "Ellen Ripley",
		"rentalDate":   now,
		"dailyRate":    3.99,
	})

	// assert
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Movie with Id "+movieID.String()+" not found", decode[validationBody](t, rec).Message)
}

func Test_Router_Rentals_CreateRejectsDailyRateOutOfRange(t *testing.T) {
	testCases := []struct {
		name            string
		dailyRate       float64
		expectedMessage string
	}{
		{name: "above the maximum rate", dailyRate: 9e16, expectedMessage: "Daily rate cannot exceed 10000"},
		{name: "beyond the money range", dailyRate: 1e20, expectedMessage: "Daily rate is out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			router := setupRouter(t)
			movie := givenMovieWasPosted(t, router, "Alien")

			// act
			rec := doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
				"movieId":      movie.ID,
				"customerName": "Ellen Ripley",
				"rentalDate":   now,
				"dailyRate":    tc.dailyRate,
			})

			// assert
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[validationBody](t, rec)
			require.Len(t, body.Errors, 1)
			assert.Equal(t, "dailyRate", body.Errors[0].Field)
			assert.Equal(t, tc.expectedMessage, body.Errors[0].Message)
		})
	}
}

func Test_Router_Rentals_ListFiltersByStatus(t *testing.T) {
	// arrange
	router := setupRouter(t)
	movie := givenMovieWasPosted(t, router, "Alien")
	for _, customer := range []string{"Ellen Ripley", "Dallas"} {
		rec := doRequest(t, router, http.MethodPost, "/api/rentals", map[string]any{
			"movieId":      movie.ID,
			"customerName": customer,
			"rentalDate":   now,
			"dailyRate":    2.5,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	// act
	active := doRequest(t, router, http.MethodGet, "/api/rentals?status=Active&movieId="+movie.ID.String(), nil)
	invalid := doRequest(t, router, http.MethodGet, "/api/rentals?status=Lost", nil)

	// assert
	require.Equal(t, http.StatusOK, active.Code)
	assert.Len(t, decode[[]rentalBody](t, active), 2)
	assert.Equal(t, http.StatusBadRequest, invalid.Code)
}

func Test_Router_EchoesCorrelationID(t *testing.T) {
	// arrange
	router := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(api.CorrelationIDHeader, "corr-123")
	rec := httptest.NewRecorder()

	// act
	router.ServeHTTP(rec, req)
	generated := doRequest(t, router, http.MethodGet, "/healthz", nil)

	// assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corr-123", rec.Header().Get(api.CorrelationIDHeader))
	assert.NotEmpty(t, generated.Header().Get(api.CorrelationIDHeader))
}

func Test_Router_HealthCheckFailure(t *testing.T) {
	// arrange
	router := setupRouter(t, api.WithHealthCheck(func(*http.Request) error { return context.DeadlineExceeded }))

	// act
	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)

	// assert
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func Test_Router_RateLimiterRejectsBurst(t *testing.T) {
	// arrange
	limiter := api.NewRateLimiter(1, 2, func() time.Time { return now })
	router := setupRouter(t, api.WithRateLimiter(limiter))

	// act
	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, doRequest(t, router, http.MethodGet, "/api/movies", nil).Code)
	}
	health := doRequest(t, router, http.MethodGet, "/healthz", nil)

	// assert
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, http.StatusOK, health.Code)
}

func Test_Router_EncryptedEnvelopeRoundTrip(t *testing.T) {
	// arrange
	key := bytes.Repeat([]byte{7}, 32)
	envelope, err := api.NewEnvelope(key)
	require.NoError(t, err)
	router := setupRouter(t, api.WithEncryptionKey(key))

	plaintext, err := json.Marshal(map[string]any{"title": "Alien"})
	require.NoError(t, err)
	sealed, err := envelope.Seal(plaintext)
	require.NoError(t, err)

	// act
	rec := doRequest(t, router, http.MethodPost, "/api/movies", map[string]string{"encryptedData": sealed})

	// assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var wrapped struct {
		EncryptedData string `json:"encryptedData"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapped))

	opened, err := envelope.Open(wrapped.EncryptedData)
	require.NoError(t, err)

	var added movieBody
	require.NoError(t, json.Unmarshal(opened, &added))
	assert.Equal(t, "Alien", added.Title)
}

func Test_Router_EncryptedEnvelopeRejectsTamperedPayload(t *testing.T) {
	// arrange
	router := setupRouter(t, api.WithEncryptionKey(bytes.Repeat([]byte{7}, 32)))

	// act
	rec := doRequest(t, router, http.MethodPost, "/api/movies", map[string]string{"encryptedData": "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"})

	// assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_WithEncryptionKey_RejectsShortKey(t *testing.T) {
	// arrange
	store, err := memoryengine.NewRecordStore()
	require.NoError(t, err)
	handlers, err := app.NewHandlerBundle(store, app.ObservabilityConfig{}, nil)
	require.NoError(t, err)

	// act
	_, err = api.NewRouter(handlers, api.WithEncryptionKey([]byte("short")))

	// assert
	assert.ErrorIs(t, err, api.ErrInvalidEncryptionKey)
}
