package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/modules/repo"
	"github.com/projcalc/estimator/internal/modules/repo/repotest"
	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/pkg/pricing"
)

func newUsers(t *testing.T) service.UserService {
	t.Helper()
	deps := service.BaseDeps{
		Store: repo.NewStore(repotest.SQLite(t)),
		Log:   zap.NewNop(),
		Calc:  pricing.NewCalculator(pricing.DefaultCatalog()),
	}
	return service.NewUserService(deps, bcrypt.MinCost)
}

func TestEnsureAdminUserExists(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)
	cfg := &config.Config{Auth: config.AuthCfg{AdminLogin: "admin", AdminPassword: "s3cret"}}

	require.NoError(t, EnsureAdminUserExists(ctx, users, cfg, zap.NewNop()))
	u, err := users.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Login)

	// a second boot with another password keeps the stored one
	cfg.Auth.AdminPassword = "changed"
	require.NoError(t, EnsureAdminUserExists(ctx, users, cfg, zap.NewNop()))
	_, err = users.Authenticate(ctx, "admin", "s3cret")
	assert.NoError(t, err)
}

func TestEnsureAdminUserExists_Disabled(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t)

	require.NoError(t, EnsureAdminUserExists(ctx, users, &config.Config{}, zap.NewNop()))
	_, err := users.Authenticate(ctx, "admin", "")
	assert.ErrorIs(t, err, service.ErrWrongLoginOrPassword)
}
