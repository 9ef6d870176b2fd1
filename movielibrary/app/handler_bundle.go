package app

import (
	"fmt"
	"time"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/api"
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
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/shared/shell/observable"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

// ObservabilityConfig holds the optional collectors handed to every wrapper. Nil fields are skipped.
type ObservabilityConfig struct {
	MetricsCollector shell.MetricsCollector
	TracingCollector shell.TracingCollector
	ContextualLogger shell.ContextualLogger
	Logger           shell.Logger
}

// NewHandlerBundle creates all command and query handlers for the store and wraps them with observability.
// clock drives validation of dates and the wrappers' duration measurement; nil means time.Now.
func NewHandlerBundle(store recordstore.Store, obs ObservabilityConfig, clock func() time.Time) (api.Handlers, error) {
	if clock == nil {
		clock = time.Now
	}

	validator := shell.NewValidator(clock)
	movies := store.Movies()
	rentals := store.Rentals()

	var (
		handlers api.Handlers
		err      error
	)

	handlers.AddMovie, err = wrapCommand[addmovie.Command, addmovie.Result](
		addmovie.NewCommandHandler(movies, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create AddMovie handler: %w", err)
	}

	handlers.UpdateMovie, err = wrapCommand[updatemovie.Command, updatemovie.Result](
		updatemovie.NewCommandHandler(movies, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create UpdateMovie handler: %w", err)
	}

	handlers.DeleteMovie, err = wrapCommand[deletemovie.Command, deletemovie.Result](
		deletemovie.NewCommandHandler(movies, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create DeleteMovie handler: %w", err)
	}

	handlers.CreateRental, err = wrapCommand[createrental.Command, createrental.Result](
		createrental.NewCommandHandler(movies, rentals, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create CreateRental handler: %w", err)
	}

	handlers.ReturnRental, err = wrapCommand[returnrental.Command, returnrental.Result](
		returnrental.NewCommandHandler(rentals, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create ReturnRental handler: %w", err)
	}

	handlers.GetMovieByID, err = wrapQuery[getmoviebyid.Query, recordstore.Movie](
		getmoviebyid.NewQueryHandler(movies), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create GetMovieByID handler: %w", err)
	}

	handlers.ListMovies, err = wrapQuery[listmovies.Query, listmovies.Movies](
		listmovies.NewQueryHandler(movies), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create ListMovies handler: %w", err)
	}

	handlers.SearchMovies, err = wrapQuery[searchmovies.Query, searchmovies.Movies](
		searchmovies.NewQueryHandler(movies, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create SearchMovies handler: %w", err)
	}

	handlers.GetRentalByID, err = wrapQuery[getrentalbyid.Query, recordstore.Rental](
		getrentalbyid.NewQueryHandler(rentals), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create GetRentalByID handler: %w", err)
	}

	handlers.ListRentals, err = wrapQuery[listrentals.Query, listrentals.Rentals](
		listrentals.NewQueryHandler(rentals, validator), obs, clock,
	)
	if err != nil {
		return api.Handlers{}, fmt.Errorf("failed to create ListRentals handler: %w", err)
	}

	return handlers, nil
}

func wrapCommand[C shell.Command, R any](
	handler shell.CommandHandler[C, R],
	obs ObservabilityConfig,
	clock func() time.Time,
) (shell.CommandHandler[C, R], error) {
	opts := []observable.CommandOption[C, R]{observable.WithCommandClock[C, R](clock)}

	if obs.MetricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C, R](obs.MetricsCollector))
	}

	if obs.TracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C, R](obs.TracingCollector))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C, R](obs.ContextualLogger))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithCommandLogging[C, R](obs.Logger))
	}

	return observable.NewCommandWrapper(handler, opts...)
}

func wrapQuery[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	obs ObservabilityConfig,
	clock func() time.Time,
) (shell.QueryHandler[Q, R], error) {
	opts := []observable.QueryOption[Q, R]{observable.WithQueryClock[Q, R](clock)}

	if obs.MetricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](obs.MetricsCollector))
	}

	if obs.TracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](obs.TracingCollector))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](obs.Logger))
	}

	return observable.NewQueryWrapper(handler, opts...)
}
