package accounts

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) CreateUser(ctx context.Context, u models.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, u models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserRepoMock) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) CountUsers(ctx context.Context, f models.UserFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) RemoveUser(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type AffiliationRepoMock struct{ mock.Mock }

func (m *AffiliationRepoMock) CreateAffiliation(ctx context.Context, a models.Affiliation) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *AffiliationRepoMock) UpdateAffiliation(ctx context.Context, a models.Affiliation) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AffiliationRepoMock) GetAffiliation(ctx context.Context, id int64) (*models.Affiliation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Affiliation), args.Error(1)
}

func (m *AffiliationRepoMock) ListAffiliations(ctx context.Context, includeDeleted bool) ([]*models.Affiliation, error) {
	args := m.Called(ctx, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Affiliation), args.Error(1)
}

func (m *AffiliationRepoMock) RemoveAffiliation(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(keys ...string) error {
	return m.Called(keys).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(ctx context.Context, entry models.AdminLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type testDeps struct {
	users        *UserRepoMock
	affiliations *AffiliationRepoMock
	cache        *CacheMock
	publisher    *PublisherMock
}

var fixedNow = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, testDeps) {
	deps := testDeps{
		users:        new(UserRepoMock),
		affiliations: new(AffiliationRepoMock),
		cache:        new(CacheMock),
		publisher:    new(PublisherMock),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewService(deps.users, deps.affiliations, deps.cache, deps.publisher, log)
	s.now = func() time.Time { return fixedNow }
	return s, deps
}

func (d testDeps) assertExpectations(t mock.TestingT) {
	d.users.AssertExpectations(t)
	d.affiliations.AssertExpectations(t)
	d.cache.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}
