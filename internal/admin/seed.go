package admin

import (
	"context"
	"errors"

	"github.com/Kyz7/backoffice/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SeedBootstrapAdmin provisions the configured first admin. An existing
// account with the same email is left untouched.
func SeedBootstrapAdmin(ctx context.Context, b config.BootstrapAdmin) error {
	if !b.Enabled() {
		return nil
	}

	_, err := Provision(ctx, ProvisionInput{
		Email:     b.Email,
		Password:  b.Password,
		AdminCode: b.AdminCode,
		Name:      b.Name,
	}, uuid.Nil, "bootstrap")
	if errors.Is(err, ErrEmailTaken) {
		log.Debug().Str("email", b.Email).Msg("bootstrap admin already exists")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().Str("email", b.Email).Msg("Bootstrap admin created")
	return nil
}
