// Package accounts содержит бизнес-логику учётных записей: создание
// пользователей и суперпользователей, сохранение из админки с повторным
// хэшированием пароля, выборки для списка и выгрузки, работу с организациями.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/accounts-admin/internal/lib/password"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/sl"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

var (
	// ErrValidation — общая ошибка проверки входных данных.
	ErrValidation = errors.New("validation error")
	// ErrEmailRequired возвращается при создании пользователя без email.
	ErrEmailRequired = fmt.Errorf("%w: user must have an email", ErrValidation)
	// ErrUsernameRequired возвращается при создании пользователя без username.
	ErrUsernameRequired = fmt.Errorf("%w: user must have an username", ErrValidation)
	// ErrPasswordTooLong возвращается для пароля длиннее предела bcrypt.
	ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, password.MaxBytes)
	// ErrAffiliationUnavailable возвращается при выборе удалённой или несуществующей организации.
	ErrAffiliationUnavailable = fmt.Errorf("%w: affiliation is not available", ErrValidation)
)

// UserRepository определяет методы хранилища пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (int64, error)
	UpdateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error)
	CountUsers(ctx context.Context, f models.UserFilter) (int, error)
	RemoveUser(ctx context.Context, id int64) (int, error)
}

// AffiliationRepository определяет методы хранилища организаций.
type AffiliationRepository interface {
	CreateAffiliation(ctx context.Context, a models.Affiliation) (int64, error)
	UpdateAffiliation(ctx context.Context, a models.Affiliation) error
	GetAffiliation(ctx context.Context, id int64) (*models.Affiliation, error)
	ListAffiliations(ctx context.Context, includeDeleted bool) ([]*models.Affiliation, error)
	// RemoveAffiliation удаляет организацию и возвращает ID удалённых вместе с ней пользователей.
	RemoveAffiliation(ctx context.Context, id int64) ([]int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(keys ...string) error
}

// Publisher публикует записи журнала администратора.
type Publisher interface {
	Publish(ctx context.Context, entry models.AdminLogEntry) error
}

const userCacheTTL = time.Hour

// Service реализует операции над учётными записями и организациями.
type Service struct {
	users        UserRepository
	affiliations AffiliationRepository
	cache        Cache
	publisher    Publisher
	log          *slog.Logger
	now          func() time.Time
}

// NewService создаёт новый экземпляр Service.
func NewService(users UserRepository, affiliations AffiliationRepository, cache Cache, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		users:        users,
		affiliations: affiliations,
		cache:        cache,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

// passwordError переводит слишком длинный пароль в ошибку валидации.
func passwordError(err error) error {
	if errors.Is(err, password.ErrTooLong) {
		return ErrPasswordTooLong
	}
	return err
}

func userCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *Service) invalidateUsers(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, userCacheKey(id))
	}
	if err := s.cache.Invalidate(keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}

// record публикует запись журнала. Ошибка публикации только логируется.
func (s *Service) record(ctx context.Context, action, objectType string, objectID int64, repr, message string) {
	entry := models.AdminLogEntry{
		ID:         uuid.NewString(),
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		ObjectRepr: repr,
		Message:    message,
		At:         s.now(),
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		s.log.Warn("failed to publish admin log entry",
			slog.String("action", action),
			slog.String("object_type", objectType),
			slog.Int64("object_id", objectID),
			sl.Err(err))
	}
}
