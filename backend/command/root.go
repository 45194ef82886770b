// Package command builds the feedback-board CLI.
package command

import (
	"context"
	"fmt"
	"path/filepath"

	"feedback-board/backend/config"
	"feedback-board/backend/initialize"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootCommand returns the root command with every sub-command bound.
func RootCommand() *cobra.Command {
	configFilePath := filepath.Join("config", "config.yaml")
	cmd := &cobra.Command{
		Use:          "feedback-board [command] [flags]",
		Short:        "Multi-user feedback notes over HTTP",
		Version:      version(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFilePath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger := initialize.InitLogger(cfg.Log, cmd.ErrOrStderr())
			logger.Debug().Str("config", configFilePath).Str("db", cfg.DB.Driver).Msg("configuration loaded")
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(logger.WithContext(ctx))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", configFilePath, "path to the configuration file")

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		userCommand(),
	)
	return cmd
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			zerolog.Ctx(cmd.Context()).Info().Str("driver", app.Cfg.DB.Driver).Msg("schema up to date")
			return app.Close()
		},
	}
}
