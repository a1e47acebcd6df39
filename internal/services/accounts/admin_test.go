package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/accounts-admin/internal/lib/password"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
)

func userForm() models.UserForm {
	return models.UserForm{
		Username:   "taro",
		Password:   "secret",
		LastName:   "山田",
		FirstName:  "太郎",
		Zip:        "100-0001",
		Prefecture: "東京都",
		Email:      "taro@example.com",
	}
}

func TestService_SaveUser_Create(t *testing.T) {
	s, deps := newTestService()

	deps.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "taro" &&
			u.PasswordHash != "secret" &&
			password.CompareHash(u.PasswordHash, "secret") == nil &&
			u.IsActive &&
			u.DateJoined.Equal(fixedNow)
	})).Return(int64(3), nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AdminLogEntry) bool {
		return e.Action == models.ActionAdd && e.ObjectType == models.ObjectUser &&
			e.ObjectID == 3 && e.ObjectRepr == "山田 太郎" && e.ID != ""
	})).Return(nil).Once()

	user, err := s.SaveUser(context.Background(), userForm(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	deps.assertExpectations(t)
}

func TestService_SaveUser_ChangeKeepsHash(t *testing.T) {
	s, deps := newTestService()

	storedHash, err := password.GetHash("secret")
	require.NoError(t, err)
	joined := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	deps.users.On("GetUser", mock.Anything, int64(5)).Return(&models.User{
		ID: 5, Username: "taro", PasswordHash: storedHash, DateJoined: joined,
	}, nil).Once()
	deps.users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.ID == 5 && u.PasswordHash == storedHash && u.DateJoined.Equal(joined) && u.City == "千代田区"
	})).Return(nil).Once()
	deps.cache.On("Invalidate", []string{"user:5"}).Return(nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AdminLogEntry) bool {
		return e.Action == models.ActionChange && e.ObjectID == 5 && e.Message == ""
	})).Return(nil).Once()

	form := userForm()
	form.Password = storedHash
	form.City = "千代田区"

	user, err := s.SaveUser(context.Background(), form, 5, true)
	require.NoError(t, err)
	assert.Equal(t, storedHash, user.PasswordHash)
	deps.assertExpectations(t)
}

func TestService_SaveUser_ChangeRehashesNewPassword(t *testing.T) {
	s, deps := newTestService()

	storedHash, err := password.GetHash("old")
	require.NoError(t, err)
	deps.users.On("GetUser", mock.Anything, int64(5)).Return(&models.User{
		ID: 5, PasswordHash: storedHash, DateJoined: fixedNow,
	}, nil).Once()
	deps.users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.PasswordHash != storedHash &&
			u.PasswordHash != "new-secret" &&
			password.CompareHash(u.PasswordHash, "new-secret") == nil
	})).Return(nil).Once()
	deps.cache.On("Invalidate", []string{"user:5"}).Return(nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AdminLogEntry) bool {
		return e.Message == "password changed"
	})).Return(nil).Once()

	form := userForm()
	form.Password = "new-secret"

	user, err := s.SaveUser(context.Background(), form, 5, true)
	require.NoError(t, err)
	assert.NotEqual(t, "new-secret", user.PasswordHash)
	deps.assertExpectations(t)
}

func TestService_SaveUser_ChangeNotFound(t *testing.T) {
	s, deps := newTestService()
	deps.users.On("GetUser", mock.Anything, int64(404)).Return(nil, storage.ErrNotFound).Once()

	user, err := s.SaveUser(context.Background(), userForm(), 404, true)
	assert.Nil(t, user)
	require.ErrorIs(t, err, storage.ErrNotFound)
	deps.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	deps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestService_SaveUser_Affiliation(t *testing.T) {
	affID := int64(2)

	t.Run("deleted affiliation is rejected", func(t *testing.T) {
		s, deps := newTestService()
		deps.affiliations.On("GetAffiliation", mock.Anything, affID).
			Return(&models.Affiliation{ID: affID, Name: "旧部署", IsDeleted: true}, nil).Once()

		form := userForm()
		form.AffiliationID = &affID
		_, err := s.SaveUser(context.Background(), form, 0, false)
		require.ErrorIs(t, err, ErrAffiliationUnavailable)
		deps.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("missing affiliation is rejected", func(t *testing.T) {
		s, deps := newTestService()
		deps.affiliations.On("GetAffiliation", mock.Anything, affID).Return(nil, storage.ErrNotFound).Once()

		form := userForm()
		form.AffiliationID = &affID
		_, err := s.SaveUser(context.Background(), form, 0, false)
		require.ErrorIs(t, err, ErrAffiliationUnavailable)
	})

	t.Run("storage failure is not a validation error", func(t *testing.T) {
		s, deps := newTestService()
		deps.affiliations.On("GetAffiliation", mock.Anything, affID).Return(nil, errors.New("db down")).Once()

		form := userForm()
		form.AffiliationID = &affID
		_, err := s.SaveUser(context.Background(), form, 0, false)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidation)
	})

	t.Run("active affiliation is accepted", func(t *testing.T) {
		s, deps := newTestService()
		deps.affiliations.On("GetAffiliation", mock.Anything, affID).
			Return(&models.Affiliation{ID: affID, Name: "営業部"}, nil).Once()
		deps.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.AffiliationID != nil && *u.AffiliationID == affID
		})).Return(int64(1), nil).Once()
		deps.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		form := userForm()
		form.AffiliationID = &affID
		_, err := s.SaveUser(context.Background(), form, 0, false)
		require.NoError(t, err)
		deps.assertExpectations(t)
	})
}

func TestService_SaveUser_PublishFailureDoesNotFail(t *testing.T) {
	s, deps := newTestService()
	deps.users.On("CreateUser", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	user, err := s.SaveUser(context.Background(), userForm(), 0, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestService_GetUser(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		s, deps := newTestService()
		deps.cache.On("Get", "user:1", mock.Anything).Run(func(args mock.Arguments) {
			*args.Get(1).(*models.User) = models.User{ID: 1, Username: "cached"}
		}).Return(true, nil).Once()

		user, err := s.GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "cached", user.Username)
		deps.users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		s, deps := newTestService()
		stored := &models.User{ID: 1, Username: "taro"}
		deps.cache.On("Get", "user:1", mock.Anything).Return(false, nil).Once()
		deps.users.On("GetUser", mock.Anything, int64(1)).Return(stored, nil).Once()
		deps.cache.On("Set", "user:1", stored, time.Hour).Return(nil).Once()

		user, err := s.GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, stored, user)
		deps.assertExpectations(t)
	})

	t.Run("cache error falls back to repository", func(t *testing.T) {
		s, deps := newTestService()
		stored := &models.User{ID: 1}
		deps.cache.On("Get", "user:1", mock.Anything).Return(false, errors.New("redis down")).Once()
		deps.users.On("GetUser", mock.Anything, int64(1)).Return(stored, nil).Once()
		deps.cache.On("Set", "user:1", stored, time.Hour).Return(errors.New("redis down")).Once()

		user, err := s.GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, stored, user)
	})

	t.Run("not found", func(t *testing.T) {
		s, deps := newTestService()
		deps.cache.On("Get", "user:9", mock.Anything).Return(false, nil).Once()
		deps.users.On("GetUser", mock.Anything, int64(9)).Return(nil, storage.ErrNotFound).Once()

		_, err := s.GetUser(context.Background(), 9)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestService_ListUsers(t *testing.T) {
	s, deps := newTestService()
	inactive := false
	f := models.UserFilter{IsActive: &inactive, Limit: 100}
	users := []*models.User{{ID: 2, IsActive: false}}

	deps.users.On("ListUsers", mock.Anything, f).Return(users, nil).Once()
	deps.users.On("CountUsers", mock.Anything, f).Return(1, nil).Once()

	got, total, err := s.ListUsers(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, users, got)
	assert.Equal(t, 1, total)
	deps.assertExpectations(t)
}

func TestService_ListUsers_Error(t *testing.T) {
	s, deps := newTestService()
	deps.users.On("ListUsers", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, _, err := s.ListUsers(context.Background(), models.UserFilter{})
	assert.ErrorContains(t, err, "accounts.ListUsers")
	deps.users.AssertNotCalled(t, "CountUsers", mock.Anything, mock.Anything)
}

func TestService_ExportUsers_IgnoresPagination(t *testing.T) {
	s, deps := newTestService()
	deps.users.On("ListUsers", mock.Anything, models.UserFilter{LastName: "山", Ordering: "-username"}).
		Return([]*models.User{{ID: 1}, {ID: 2}}, nil).Once()

	got, err := s.ExportUsers(context.Background(), models.UserFilter{LastName: "山", Ordering: "-username", Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	deps.assertExpectations(t)
}

func TestService_RemoveUser(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		s, deps := newTestService()
		deps.users.On("RemoveUser", mock.Anything, int64(4)).Return(1, nil).Once()
		deps.cache.On("Invalidate", []string{"user:4"}).Return(nil).Once()
		deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AdminLogEntry) bool {
			return e.Action == models.ActionDelete && e.ObjectID == 4
		})).Return(nil).Once()

		n, err := s.RemoveUser(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		deps.assertExpectations(t)
	})

	t.Run("nothing removed is not logged", func(t *testing.T) {
		s, deps := newTestService()
		deps.users.On("RemoveUser", mock.Anything, int64(4)).Return(0, nil).Once()
		deps.cache.On("Invalidate", []string{"user:4"}).Return(nil).Once()

		n, err := s.RemoveUser(context.Background(), 4)
		require.NoError(t, err)
		assert.Zero(t, n)
		deps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestService_SaveUser_PasswordTooLong(t *testing.T) {
	long := strings.Repeat("a", 100)

	t.Run("create", func(t *testing.T) {
		s, deps := newTestService()
		form := userForm()
		form.Password = long

		user, err := s.SaveUser(context.Background(), form, 0, false)
		assert.Nil(t, user)
		require.ErrorIs(t, err, ErrPasswordTooLong)
		require.ErrorIs(t, err, ErrValidation)
		deps.users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("change", func(t *testing.T) {
		s, deps := newTestService()
		deps.users.On("GetUser", mock.Anything, int64(5)).Return(&models.User{ID: 5, PasswordHash: "$2a$10$stored"}, nil).Once()
		form := userForm()
		form.Password = long

		_, err := s.SaveUser(context.Background(), form, 5, true)
		require.ErrorIs(t, err, ErrValidation)
		deps.users.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
		deps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestService_SaveUser_ChangeWithoutPasswordKeepsHash(t *testing.T) {
	s, deps := newTestService()

	storedHash, err := password.GetHash("secret")
	require.NoError(t, err)
	deps.users.On("GetUser", mock.Anything, int64(5)).Return(&models.User{
		ID: 5, PasswordHash: storedHash, DateJoined: fixedNow,
	}, nil).Once()
	deps.users.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.PasswordHash == storedHash
	})).Return(nil).Once()
	deps.cache.On("Invalidate", []string{"user:5"}).Return(nil).Once()
	deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e models.AdminLogEntry) bool {
		return e.Message == ""
	})).Return(nil).Once()

	form := userForm()
	form.Password = ""

	user, err := s.SaveUser(context.Background(), form, 5, true)
	require.NoError(t, err)
	assert.Equal(t, storedHash, user.PasswordHash)
	deps.assertExpectations(t)
}
