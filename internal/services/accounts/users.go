package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/accounts-admin/internal/lib/password"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// CreateUser создаёт активного пользователя с хэшированным паролем.
// Без email или username пользователь не создаётся и ничего не сохраняется.
func (s *Service) CreateUser(ctx context.Context, username, email, pass, lastName, firstName string) (*models.User, error) {
	const op = "accounts.CreateUser"
	if email == "" {
		return nil, ErrEmailRequired
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, passwordError(err))
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		LastName:     lastName,
		FirstName:    firstName,
		DateJoined:   s.now(),
		IsActive:     true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	s.log.Info("created user", slog.Int64("id", id), slog.String("username", username))
	return &user, nil
}

// CreateSuperuser создаёт пользователя через CreateUser и выдаёт ему
// доступ к админке и права суперпользователя.
func (s *Service) CreateSuperuser(ctx context.Context, username, email, pass, lastName, firstName string) (*models.User, error) {
	const op = "accounts.CreateSuperuser"
	user, err := s.CreateUser(ctx, username, email, pass, lastName, firstName)
	if err != nil {
		return nil, err
	}

	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("granted superuser", slog.Int64("id", user.ID))
	return user, nil
}
