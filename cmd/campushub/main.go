package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/campushub/campushub/internal/interfaces/cli/feedback"
	"github.com/campushub/campushub/internal/interfaces/cli/migrate"
	"github.com/campushub/campushub/internal/interfaces/cli/server"
	"github.com/campushub/campushub/internal/interfaces/cli/token"
	"github.com/campushub/campushub/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "campushub",
		Short:   "CampusHub - feedback threads between students, faculty and administration",
		Long:    `CampusHub runs the feedback thread service and its operational tooling: HTTP server, schema migrations, legacy data migration and token minting.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		feedback.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
