package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/accounts-admin/internal/lib/password"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
)

// SaveUser сохраняет пользователя из формы админки.
//
// При создании (change == false) пароль из формы всегда хэшируется.
// При редактировании пароль хэшируется, только если значение из формы
// отличается от сохранённого хэша. Пустой пароль оставляет сохранённый хэш.
// Дата регистрации не меняется.
func (s *Service) SaveUser(ctx context.Context, form models.UserForm, id int64, change bool) (*models.User, error) {
	const op = "accounts.SaveUser"

	if err := s.checkAffiliation(ctx, form.AffiliationID); err != nil {
		return nil, err
	}

	user := models.User{
		Username:      form.Username,
		LastName:      form.LastName,
		FirstName:     form.FirstName,
		Zip:           form.Zip,
		Prefecture:    form.Prefecture,
		City:          form.City,
		Address:       form.Address,
		Email:         form.Email,
		IsActive:      form.Active(),
		IsStaff:       form.IsStaff,
		IsSuperuser:   form.IsSuperuser,
		AffiliationID: form.AffiliationID,
	}

	if change {
		stored, err := s.users.GetUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		hash := stored.PasswordHash
		if form.Password != "" {
			if hash, err = password.Rehash(stored.PasswordHash, form.Password); err != nil {
				return nil, fmt.Errorf("%s: %w", op, passwordError(err))
			}
		}
		user.ID = id
		user.PasswordHash = hash
		user.DateJoined = stored.DateJoined

		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.invalidateUsers(id)

		message := ""
		if hash != stored.PasswordHash {
			message = "password changed"
		}
		s.record(ctx, models.ActionChange, models.ObjectUser, id, user.String(), message)
		s.log.Info("changed user", slog.Int64("id", id))
		return &user, nil
	}

	hash, err := password.GetHash(form.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, passwordError(err))
	}
	user.PasswordHash = hash
	user.DateJoined = s.now()

	newID, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = newID

	s.record(ctx, models.ActionAdd, models.ObjectUser, newID, user.String(), "")
	s.log.Info("added user", slog.Int64("id", newID))
	return &user, nil
}

// checkAffiliation разрешает только существующие организации без флага удаления.
func (s *Service) checkAffiliation(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	affiliation, err := s.affiliations.GetAffiliation(ctx, *id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrAffiliationUnavailable
	}
	if err != nil {
		return fmt.Errorf("accounts.checkAffiliation: %w", err)
	}
	if affiliation.IsDeleted {
		return ErrAffiliationUnavailable
	}
	return nil
}

// GetUser возвращает пользователя по ID, используя кэш.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "accounts.GetUser"
	key := userCacheKey(id)

	var cached models.User
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(key, user, userCacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
	return user, nil
}

// ListUsers возвращает страницу пользователей и общее количество подходящих под фильтр.
func (s *Service) ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, int, error) {
	const op = "accounts.ListUsers"
	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	total, err := s.users.CountUsers(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}

// ExportUsers возвращает всех пользователей, подходящих под фильтр, без пагинации.
func (s *Service) ExportUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	const op = "accounts.ExportUsers"
	f.Limit = 0
	f.Offset = 0
	users, err := s.users.ListUsers(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// RemoveUser удаляет пользователя и возвращает количество удалённых записей.
func (s *Service) RemoveUser(ctx context.Context, id int64) (int, error) {
	const op = "accounts.RemoveUser"
	count, err := s.users.RemoveUser(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidateUsers(id)
	if count > 0 {
		s.record(ctx, models.ActionDelete, models.ObjectUser, id, "", "")
	}
	return count, nil
}
