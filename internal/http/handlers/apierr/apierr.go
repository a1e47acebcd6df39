// Package apierr сопоставляет ошибки сервиса со статусами HTTP.
package apierr

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/accounts-admin/internal/services/accounts"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
)

// validationErrs — ошибки валидации, текст которых отдаётся клиенту как есть.
var validationErrs = []error{
	accounts.ErrEmailRequired,
	accounts.ErrUsernameRequired,
	accounts.ErrPasswordTooLong,
}

// Status возвращает HTTP-статус и сообщение для клиента по ошибке сервиса.
// fallback используется для внутренних ошибок.
func Status(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ErrUsernameTaken):
		return http.StatusConflict, "username already taken"
	case errors.Is(err, accounts.ErrAffiliationUnavailable),
		errors.Is(err, storage.ErrAffiliationMissing):
		return http.StatusUnprocessableEntity, "affiliation is not available"
	case errors.Is(err, accounts.ErrValidation):
		for _, target := range validationErrs {
			if errors.Is(err, target) {
				return http.StatusUnprocessableEntity, target.Error()
			}
		}
		return http.StatusUnprocessableEntity, accounts.ErrValidation.Error()
	default:
		return http.StatusInternalServerError, fallback
	}
}
