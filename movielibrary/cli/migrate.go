package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/afarhat-dev/vertical-slice-poc/movielibrary/app"
)

// ErrMigrateNeedsPostgres is returned by migrate for any storage other than postgres.
var ErrMigrateNeedsPostgres = errors.New("migrate needs --storage=postgres")

const logMsgSchemaCreated = "schema created"

// MigrateCmd creates the movie and rental tables.
var MigrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create the PostgreSQL tables and indexes if they are missing",
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}

		if s.Storage != storagePostgres {
			return ErrMigrateNeedsPostgres
		}

		logger := newLogger(s.LogLevel)

		opened, err := openStore(cmd.Context(), s, app.ObservabilityConfig{Logger: logger})
		if err != nil {
			return err
		}
		defer func() { _ = opened.close() }()

		if err := opened.postgres.CreateSchema(cmd.Context()); err != nil {
			return err
		}

		logger.Info(logMsgSchemaCreated, logAttrStorage, s.Storage)

		return nil
	},
}
