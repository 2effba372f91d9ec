package main

import (
	"github.com/spf13/cobra"

	"github.com/sesi/membership/internal/pkg/logger"
	"github.com/sesi/membership/internal/server"
)

func serveRun(cmd *cobra.Command, _ []string) error {
	srv, err := server.NewServer(cmd.Context(), configFile)
	if err != nil {
		return err
	}

	if err := srv.Run(cmd.Context()); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the notification worker",
		RunE:  serveRun,
	}
}
