package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateAffiliation(ctx context.Context, form models.AffiliationForm) (*models.Affiliation, error) {
	args := m.Called(ctx, form)
	if res := args.Get(0); res != nil {
		return res.(*models.Affiliation), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name      string
		body      string
		setupMock func(*MockService)
		wantCode  int
		wantBody  string
	}{
		{
			name: "создана",
			body: `{"name":"営業部"}`,
			setupMock: func(m *MockService) {
				m.On("CreateAffiliation", mock.Anything, models.AffiliationForm{Name: "営業部"}).
					Return(&models.Affiliation{ID: 1, Name: "営業部"}, nil).Once()
			},
			wantCode: http.StatusCreated,
			wantBody: `{"status":"OK","data":{"affiliation":{"id":1,"name":"営業部","delete_flg":false}}}`,
		},
		{
			name:      "название длиннее 10 символов",
			body:      `{"name":"` + strings.Repeat("部", 11) + `"}`,
			setupMock: func(_ *MockService) {},
			wantCode:  http.StatusUnprocessableEntity,
			wantBody:  `{"status":"Error","error":"field Name must be at most 10 characters"}`,
		},
		{
			name:      "пустое название",
			body:      `{"delete_flg":true}`,
			setupMock: func(_ *MockService) {},
			wantCode:  http.StatusUnprocessableEntity,
			wantBody:  `{"status":"Error","error":"field Name is a required field"}`,
		},
		{
			name: "ошибка сервиса",
			body: `{"name":"営業部"}`,
			setupMock: func(m *MockService) {
				m.On("CreateAffiliation", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"status":"Error","error":"could not create affiliation"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/admin/accounts/affiliations", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}
