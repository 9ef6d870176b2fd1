package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/api"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/addmovie"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/createrental"
	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/features/command/returnrental"
	"github.com/afarhat-dev/vertical-slice-poc/recordstore"
)

const (
	keySeedMovies  = "movies"
	keySeedRentals = "rentals"
	keySeedRandom  = "random-seed"

	logMsgSeeded = "fixture data seeded"

	logAttrMovies   = "movies"
	logAttrRentals  = "rentals"
	logAttrReturned = "returned"
)

var (
	seedTitlePrefixes = []string{"The", "Return of the", "Last", "Silent", "Midnight", "Electric", "Lost", "Burning"}
	seedTitleNouns    = []string{"Harbor", "Signal", "Orchard", "Frontier", "Machine", "Garden", "Empire", "River"}
	seedDirectors     = []string{"Ridley Scott", "Agnès Varda", "Akira Kurosawa", "Kathryn Bigelow", "Denis Villeneuve"}
	seedGenres        = []string{"Drama", "Science Fiction", "Thriller", "Comedy", "Documentary"}
	seedCustomers     = []string{"Ellen Ripley", "Rick Deckard", "Sarah Connor", "Dana Scully", "Marty McFly", "Clarice Starling"}
)

// SeedCmd fills the configured storage with generated movies and rentals.
var SeedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Generate fixture movies and rentals",
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		logger := newLogger(s.LogLevel)

		opened, err := openStore(cmd.Context(), s, app.ObservabilityConfig{})
		if err != nil {
			return err
		}
		defer func() { _ = opened.close() }()

		if opened.postgres != nil {
			if err := opened.postgres.CreateSchema(cmd.Context()); err != nil {
				return err
			}
		}

		handlers, err := app.NewHandlerBundle(opened.store, app.ObservabilityConfig{}, nil)
		if err != nil {
			return err
		}

		seed := viper.GetUint64(keySeedRandom)
		report, err := Seed(cmd.Context(), handlers, viper.GetInt(keySeedMovies), viper.GetInt(keySeedRentals), time.Now(), seed)
		if err != nil {
			return err
		}

		logger.Info(logMsgSeeded, logAttrMovies, report.Movies, logAttrRentals, report.Rentals, logAttrReturned, report.Returned)

		return nil
	},
}

func init() {
	flags := SeedCmd.Flags()
	flags.Int(keySeedMovies, 50, "number of movies to generate")
	flags.Int(keySeedRentals, 200, "number of rentals to generate, about a third of them returned")
	flags.Uint64(keySeedRandom, 1, "seed of the generator, equal seeds generate equal data")
}

// SeedReport counts what Seed created.
type SeedReport struct {
	Movies   int
	Rentals  int
	Returned int
}

// Seed creates movies and rentals through the command handlers, so every record passes validation.
// Rental dates lie within the last 90 days before now.
func Seed(ctx context.Context, handlers api.Handlers, movies, rentals int, now time.Time, seed uint64) (SeedReport, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // fixture data only

	var report SeedReport
	catalog := make([]recordstore.Movie, 0, movies)

	for i := range movies {
		year := 1950 + rng.IntN(now.Year()-1950+1)
		rating := float64(rng.IntN(101)) / 10
		title := fmt.Sprintf("%s %s %d",
			seedTitlePrefixes[rng.IntN(len(seedTitlePrefixes))],
			seedTitleNouns[rng.IntN(len(seedTitleNouns))],
			i+1,
		)

		result, err := handlers.AddMovie.Handle(ctx, addmovie.BuildCommand(
			title,
			seedDirectors[rng.IntN(len(seedDirectors))],
			seedGenres[rng.IntN(len(seedGenres))],
			"",
			&year,
			&rating,
		))
		if err != nil {
			return report, fmt.Errorf("failed to add movie %q: %w", title, err)
		}

		catalog = append(catalog, result.Movie)
		report.Movies++
	}

	if len(catalog) == 0 {
		return report, nil
	}

	for range rentals {
		movie := catalog[rng.IntN(len(catalog))]
		rentalDate := now.Add(-time.Duration(1+rng.IntN(90*24)) * time.Hour)
		dailyRate := recordstore.Money(99 + rng.IntN(500))

		created, err := handlers.CreateRental.Handle(ctx, createrental.BuildCommand(
			movie.ID,
			seedCustomers[rng.IntN(len(seedCustomers))],
			rentalDate,
			dailyRate,
		))
		if err != nil {
			return report, fmt.Errorf("failed to create rental for movie %s: %w", movie.ID, err)
		}

		report.Rentals++

		if rng.IntN(3) != 0 {
			continue
		}

		returnDate := rentalDate.Add(time.Duration(rng.Int64N(int64(now.Sub(rentalDate)) + 1)))
		if _, err := handlers.ReturnRental.Handle(ctx, returnrental.BuildCommand(
			created.Rental.ID,
			created.Rental.Version,
			returnDate,
		)); err != nil {
			return report, fmt.Errorf("failed to return rental %s: %w", created.Rental.ID, err)
		}

		report.Returned++
	}

	return report, nil
}
