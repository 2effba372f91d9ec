// Package seed loads the reference data and the bootstrap admin account.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/app/services"
)

//go:embed data/states.yaml
var statesYAML []byte

// districtNamespace derives stable district ids so reseeding upserts in place
var districtNamespace = uuid.MustParse("6f1c2a4e-58b3-4f0e-9a7d-2c5e1b8d3f40")

type stateEntry struct {
	Code      string   `yaml:"code"`
	Name      string   `yaml:"name"`
	Districts []string `yaml:"districts"`
}

type referenceFile struct {
	States []stateEntry `yaml:"states"`
}

// StateID is the id a state code is stored under
func StateID(code string) string {
	return strings.ToLower(code)
}

// DistrictID is the id a district is stored under
func DistrictID(stateCode, name string) string {
	return uuid.NewSHA1(districtNamespace, []byte(strings.ToUpper(stateCode)+"/"+name)).String()
}

func parseReference(data []byte) ([]stateEntry, error) {
	var f referenceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing reference data: %w", err)
	}
	return f.States, nil
}

// LoadReferenceData upserts every state and district. Failures are collected
// so one bad row does not stop the rest.
func LoadReferenceData(ctx context.Context, store repositories.ReferenceStore, lgr zerolog.Logger) error {
	states, err := parseReference(statesYAML)
	if err != nil {
		return err
	}

	lgr.Info().Int("states", len(states)).Msg("Loading reference data (States/Districts)...")
	var finalErr error
	districts := 0

	for _, st := range states {
		state := &models.State{ID: StateID(st.Code), Name: st.Name, Code: strings.ToUpper(st.Code)}
		if err := store.UpsertState(ctx, state); err != nil {
			lgr.Error().Err(err).Str("state", st.Name).Msg("Error upserting state")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		for _, name := range st.Districts {
			d := &models.District{ID: DistrictID(st.Code, name), Name: name, StateID: state.ID}
			if err := store.UpsertDistrict(ctx, d); err != nil {
				lgr.Error().Err(err).Str("district", name).Msg("Error upserting district")
				finalErr = errors.Join(finalErr, err)
				continue
			}
			districts++
		}
	}

	lgr.Info().Int("districts", districts).Msg("Reference data loaded")
	return finalErr
}

// EnsureAdmin creates the bootstrap admin when email and password are set and
// no user with that email exists yet.
func EnsureAdmin(ctx context.Context, authService services.AuthService, email, password string, lgr zerolog.Logger) error {
	if email == "" || password == "" {
		lgr.Debug().Msg("No bootstrap admin configured, skipping")
		return nil
	}

	created, err := authService.EnsureUser(ctx, &dto.CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: "SESI Administrator",
		Role:     string(models.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("error creating bootstrap admin: %w", err)
	}
	if created {
		lgr.Info().Str("email", email).Msg("Bootstrap admin created")
	}
	return nil
}

// Run loads reference data and then the bootstrap admin
func Run(ctx context.Context, repos *repositories.Repositories, authService services.AuthService, adminEmail, adminPassword string, lgr zerolog.Logger) error {
	return errors.Join(
		LoadReferenceData(ctx, repos.Reference, lgr),
		EnsureAdmin(ctx, authService, adminEmail, adminPassword, lgr),
	)
}
