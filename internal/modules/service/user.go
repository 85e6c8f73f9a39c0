package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/pkg/utils/secrets"
)

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*UserOutput, error)
	Get(ctx context.Context, callerID, userID uuid.UUID) (*UserOutput, error)
	Update(ctx context.Context, in UpdateUserInput) (*UserOutput, error)
	// Authenticate resolves login and password to a user.
	Authenticate(ctx context.Context, login, password string) (*model.User, error)
}

type userService struct {
	deps BaseDeps
	cost int
}

func NewUserService(deps BaseDeps, bcryptCost int) UserService {
	return &userService{deps: deps.withDefaults(), cost: bcryptCost}
}

type CreateUserInput struct {
	Login    string
	Password string
	Email    string
}

func (s *userService) hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrBlankField.WithField("password")
	}
	h, err := secrets.HashSecret(password, s.cost)
	if err != nil {
		if errors.Is(err, secrets.ErrSecretTooLong) {
			return "", ErrInvalidPassword
		}
		return "", MapError("user.hash", err)
	}
	return h, nil
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*UserOutput, error) {
	if strings.TrimSpace(in.Login) == "" {
		return nil, ErrBlankField.WithField("login")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrBlankField.WithField("email")
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	usr := &model.User{Login: in.Login, PasswordHash: hash, Email: in.Email}
	err = write(ctx, s.deps, "user.create", func(u *unit) error {
		exists, err := u.tx.Users().ExistsByLogin(ctx, in.Login)
		if err != nil {
			return MapError("user.create", err)
		}
		if exists {
			return ErrLoginAlreadyExists
		}
		usr.CreatedAt = u.now
		usr.UpdatedAt = u.now
		if err := u.tx.Users().Create(ctx, usr); err != nil {
			// lost a race with a concurrent registration
			if errors.Is(MapError("user.create", err), ErrDuplicate) {
				return ErrLoginAlreadyExists
			}
			return MapError("user.create", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Saved user", zap.String("user_id", usr.ID.String()), zap.String("login", usr.Login))
	return newUserOutput(usr), nil
}

// Get returns the caller's own profile. Other users are not visible.
func (s *userService) Get(ctx context.Context, callerID, userID uuid.UUID) (*UserOutput, error) {
	if callerID != userID {
		return nil, ErrUserNotFound
	}
	usr, err := s.deps.Store.Users().Get(ctx, userID)
	if err != nil {
		return nil, notFound("user.get", err, ErrUserNotFound)
	}
	return newUserOutput(usr), nil
}

type UpdateUserInput struct {
	CallerID uuid.UUID
	UserID   uuid.UUID
	Password string
	Email    string
}

func (s *userService) Update(ctx context.Context, in UpdateUserInput) (*UserOutput, error) {
	if in.CallerID != in.UserID {
		return nil, ErrUserNotFound
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrBlankField.WithField("email")
	}
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var usr *model.User
	err = write(ctx, s.deps, "user.update", func(u *unit) error {
		usr, err = u.tx.Users().Get(ctx, in.UserID)
		if err != nil {
			return notFound("user.update", err, ErrUserNotFound)
		}
		usr.PasswordHash = hash
		usr.Email = in.Email
		usr.UpdatedAt = u.now
		if err := u.tx.Users().Update(ctx, usr); err != nil {
			return MapError("user.update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Log.Info("Updated user", zap.String("user_id", usr.ID.String()))
	return newUserOutput(usr), nil
}

func (s *userService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	if login == "" || password == "" {
		return nil, ErrWrongLoginOrPassword
	}
	usr, err := s.deps.Store.Users().GetByLogin(ctx, login)
	if err != nil {
		return nil, notFound("user.authenticate", err, ErrWrongLoginOrPassword)
	}
	ok, err := secrets.VerifySecret(password, usr.PasswordHash)
	if err != nil {
		return nil, MapError("user.authenticate", err)
	}
	if !ok {
		return nil, ErrWrongLoginOrPassword
	}
	return usr, nil
}
