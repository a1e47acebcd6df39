package update

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SaveUser(ctx context.Context, form models.UserForm, id int64, change bool) (*models.User, error) {
	args := m.Called(ctx, form, id, change)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(t *testing.T, id string, body any) *http.Request {
	t.Helper()

	var payload []byte
	if s, ok := body.(string); ok {
		payload = []byte(s)
	} else {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPut, "/admin/accounts/users/"+id, bytes.NewReader(payload))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storedHash := "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3dbQWyeNEEc9yHlhSXwDJOC"
	form := models.UserForm{
		Username:  "taro",
		Password:  storedHash,
		LastName:  "山田",
		FirstName: "太郎",
	}

	tests := []struct {
		name         string
		id           string
		body         any
		setupMock    func(*MockService)
		wantCode     int
		wantContains string
	}{
		{
			name: "сохранение без смены пароля",
			id:   "5",
			body: form,
			setupMock: func(m *MockService) {
				m.On("SaveUser", mock.Anything, form, int64(5), true).
					Return(&models.User{ID: 5, Username: "taro", PasswordHash: storedHash}, nil).Once()
			},
			wantCode:     http.StatusOK,
			wantContains: storedHash,
		},
		{
			name:         "некорректный id",
			id:           "x",
			body:         form,
			setupMock:    func(_ *MockService) {},
			wantCode:     http.StatusBadRequest,
			wantContains: "failed to decode id from url",
		},
		{
			name:         "некорректный json",
			id:           "5",
			body:         "{",
			setupMock:    func(_ *MockService) {},
			wantCode:     http.StatusBadRequest,
			wantContains: "invalid request body",
		},
		{
			name:         "некорректный email",
			id:           "5",
			body:         models.UserForm{Username: "taro", LastName: "山田", FirstName: "太郎", Email: "nope"},
			setupMock:    func(_ *MockService) {},
			wantCode:     http.StatusUnprocessableEntity,
			wantContains: "field Email must be a valid email",
		},
		{
			name: "пользователь не найден",
			id:   "404",
			body: form,
			setupMock: func(m *MockService) {
				m.On("SaveUser", mock.Anything, form, int64(404), true).
					Return(nil, fmt.Errorf("accounts.SaveUser: %w", storage.ErrNotFound)).Once()
			},
			wantCode:     http.StatusNotFound,
			wantContains: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, newRequest(t, tt.id, tt.body))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantContains)
			svc.AssertExpectations(t)
		})
	}
}
