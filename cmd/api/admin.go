package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sesi/membership/internal/app/migrations"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/bootstrap"
	"github.com/sesi/membership/internal/config"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configFile)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations need the postgres driver, got %q", cfg.Database.Driver)
			}

			migrator := migrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}

			switch action {
			case "down":
				return migrator.Down()
			case "version":
				version, dirty, err := migrator.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			default:
				return migrator.Up()
			}
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load states, districts and the bootstrap admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := openDependencies(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			return bootstrap.Seed(cmd.Context(), deps)
		},
	}
}

func createAdminCommand() *cobra.Command {
	var req dto.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a back-office user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := openDependencies(cmd)
			if err != nil {
				return err
			}
			defer deps.Close()

			user, err := deps.AuthService.CreateUser(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&req.FullName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Role, "role", "admin", "admin or editor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// openDependencies migrates the schema and opens the stores for one-shot commands
func openDependencies(cmd *cobra.Command) (*bootstrap.Dependencies, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configFile)
	if err != nil {
		return nil, err
	}
	if err := bootstrap.RunMigrations(cfg, lgr); err != nil {
		return nil, err
	}
	return bootstrap.BuildDependencies(cmd.Context(), cfg, lgr)
}
