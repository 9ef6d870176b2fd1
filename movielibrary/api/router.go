package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/addmovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/createrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/deletemovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/returnrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/updatemovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/getmoviebyid"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/getrentalbyid"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/listmovies"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/listrentals"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/query/searchmovies"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// ErrMissingHandler is returned by NewRouter when Handlers is incomplete.
var ErrMissingHandler = errors.New("all command and query handlers must be set")

// Handlers holds the (usually observable-wrapped) handlers the API dispatches to.
type Handlers struct {
	AddMovie      shell.CommandHandler[addmovie.Command, addmovie.Result]
	UpdateMovie   shell.CommandHandler[updatemovie.Command, updatemovie.Result]
	DeleteMovie   shell.CommandHandler[deletemovie.Command, deletemovie.Result]
	CreateRental  shell.CommandHandler[createrental.Command, createrental.Result]
	ReturnRental  shell.CommandHandler[returnrental.Command, returnrental.Result]
	GetMovieByID  shell.QueryHandler[getmoviebyid.Query, recordstore.Movie]
	ListMovies    shell.QueryHandler[listmovies.Query, listmovies.Movies]
	SearchMovies  shell.QueryHandler[searchmovies.Query, searchmovies.Movies]
	GetRentalByID shell.QueryHandler[getrentalbyid.Query, recordstore.Rental]
	ListRentals   shell.QueryHandler[listrentals.Query, listrentals.Rentals]
}

func (h Handlers) complete() bool {
	return h.AddMovie != nil && h.UpdateMovie != nil && h.DeleteMovie != nil &&
		h.CreateRental != nil && h.ReturnRental != nil &&
		h.GetMovieByID != nil && h.ListMovies != nil && h.SearchMovies != nil &&
		h.GetRentalByID != nil && h.ListRentals != nil
}

// API binds HTTP requests to the handlers.
type API struct {
	handlers       Handlers
	logger         *slog.Logger
	clock          func() time.Time
	rateLimiter    *RateLimiter
	envelope       *Envelope
	metricsHandler http.Handler
	healthCheck    func(r *http.Request) error
}

// Option configures the API.
type Option func(*API) error

// WithLogger sets the logger for request logging and internal errors.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) error {
		a.logger = logger
		return nil
	}
}

// WithClock replaces time.Now for request durations.
func WithClock(clock func() time.Time) Option {
	return func(a *API) error {
		a.clock = clock
		return nil
	}
}

// WithRateLimiter enables per-client rate limiting of the /api routes.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(a *API) error {
		a.rateLimiter = limiter
		return nil
	}
}

// WithEncryptionKey enables the encrypted envelope for the /api routes.
func WithEncryptionKey(key []byte) Option {
	return func(a *API) error {
		envelope, err := NewEnvelope(key)
		if err != nil {
			return err
		}

		a.envelope = envelope
		return nil
	}
}

// WithMetricsHandler serves handler on GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(a *API) error {
		a.metricsHandler = handler
		return nil
	}
}

// WithHealthCheck makes GET /healthz report 503 when check fails.
func WithHealthCheck(check func(r *http.Request) error) Option {
	return func(a *API) error {
		a.healthCheck = check
		return nil
	}
}

// NewRouter builds the chi router serving the API.
func NewRouter(handlers Handlers, opts ...Option) (http.Handler, error) {
	if !handlers.complete() {
		return nil, ErrMissingHandler
	}

	a := &API{
		handlers: handlers,
		logger:   slog.New(slog.DiscardHandler),
		clock:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CorrelationID)
	r.Use(RequestLogger(a.logger, a.clock))

	r.Get("/healthz", a.healthz)

	if a.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", a.metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if a.rateLimiter != nil {
			r.Use(a.rateLimiter.Middleware)
		}

		if a.envelope != nil {
			r.Use(a.envelope.Middleware(a.logger))
		}

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", a.listMovies)
			r.Post("/", a.addMovie)
			r.Get("/search", a.searchMovies)
			r.Get("/{id}", a.getMovie)
			r.Put("/{id}", a.updateMovie)
			r.Delete("/{id}", a.deleteMovie)
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Get("/", a.listRentals)
			r.Post("/", a.createRental)
			r.Get("/{id}", a.getRental)
			r.Put("/{id}/return", a.returnRental)
		})
	})

	return r, nil
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	if a.healthCheck != nil {
		if err := a.healthCheck(r); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "unhealthy"})
			return
		}
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
}
