package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the movielibrary release.
const Version = "0.4.0"

var (
	// RootCmd represents the base command when called without any subcommands.
	RootCmd = &cobra.Command{
		Use:   "movielibrary",
		Short: "movie catalog and rental service",
		Long: fmt.Sprintf(`movielibrary (v%s)

A movie catalog and rental record store with optimistic concurrency,
served over HTTP on top of PostgreSQL, Redis or memory.`, Version),
		SilenceUsage: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of movielibrary",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("movielibrary v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(MigrateCmd)
	RootCmd.AddCommand(SeedCmd)
	RootCmd.AddCommand(versionCmd)

	addStorageFlags(RootCmd)

	RootCmd.PersistentFlags().String(keyLogLevel, "info", "log level (debug, info, warn, error)")
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
