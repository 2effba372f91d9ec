package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sesi/membership/internal/pkg/logger"
)

const programName = "sesi-api"

var configFile string

// @title SESI Membership API
// @version 1.0
// @description Membership intake, review and directory API of the Shoulder & Elbow Society of India

// @contact.name SESI Secretariat
// @contact.url https://sesi.co.in
// @contact.email admin@sesi.co.in

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "SESI membership API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveRun,
	}

	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "configs/config.yaml", "path to config file")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())
	rootCmd.AddCommand(seedCommand())
	rootCmd.AddCommand(createAdminCommand())

	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
