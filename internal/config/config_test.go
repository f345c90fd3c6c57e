package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"auctionhub/api/internal/apperrors"
)

func validConfig() AppConfig {
	return AppConfig{
		Security: SecurityConfig{
			JWTAccessSecret:  "access-secret",
			JWTRefreshSecret: "refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    168 * time.Hour,
		},
		Postgres: PostgresConfig{DSN: "postgres://localhost:5432/auction"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.validate())
}

func TestValidate_MissingSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTAccessSecret = ""
	assert.ErrorIs(t, cfg.validate(), apperrors.ErrEnvironmentMisconfigured)

	cfg = validConfig()
	cfg.Security.JWTRefreshSecret = ""
	assert.ErrorIs(t, cfg.validate(), apperrors.ErrEnvironmentMisconfigured)
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Postgres.DSN = ""
	assert.ErrorIs(t, cfg.validate(), apperrors.ErrEnvironmentMisconfigured)
}
