package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"anoa.com/eventtech/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "eventtech"

type configKey struct{}

func configFromContext(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Event registration and administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), configFromContext(cmd.Context()))
		},
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
			return fmt.Errorf("failed to set GOMAXPROCS: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	}

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(createAdminCommand())
	rootCmd.AddCommand(setPasswordCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
