package bootstrap

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/modules/service"
)

// EnsureAdminUserExists creates the configured admin account on startup.
// An existing login is left untouched, including its password.
func EnsureAdminUserExists(ctx context.Context, users service.UserService, cfg *config.Config, log *zap.Logger) error {
	login, password := cfg.Auth.AdminLogin, cfg.Auth.AdminPassword
	if login == "" || password == "" {
		return nil
	}

	u, err := users.Create(ctx, service.CreateUserInput{
		Login:    login,
		Password: password,
		Email:    login + "@localhost",
	})
	switch {
	case err == nil:
		log.Info("admin user created", zap.String("user_id", u.ID.String()))
		return nil
	case errors.Is(err, service.ErrLoginAlreadyExists):
		log.Info("admin user exists", zap.String("login", login))
		return nil
	default:
		return err
	}
}
