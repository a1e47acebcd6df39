package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/accounts-admin/internal/http/response"
	"github.com/magabrotheeeer/accounts-admin/internal/lib/password"
	"github.com/magabrotheeeer/accounts-admin/internal/models"
	"github.com/magabrotheeeer/accounts-admin/internal/storage"
)

var (
	errPasswordBlank    = errors.New("password must not be blank")
	errPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", password.MaxBytes)
	errPasswordMismatch = errors.New("passwords didn't match")
	errUsernameTaken    = errors.New("that username is already taken")
)

// input — поля суперпользователя из флагов. Правила совпадают с формой админки,
// email обязателен.
type input struct {
	Username  string `validate:"required,max=30"`
	Email     string `validate:"required,email,max=254"`
	LastName  string `validate:"required,max=30"`
	FirstName string `validate:"required,max=30"`
}

// validate проверяет поля и возвращает ошибку с текстом для пользователя.
func (in input) validate(v *validator.Validate) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return errors.New(response.ValidationError(verrs).Error)
}

func validatePassword(pass string) error {
	switch {
	case pass == "":
		return errPasswordBlank
	case len(pass) > password.MaxBytes:
		return errPasswordTooLong
	}
	return nil
}

// UserLookup ищет пользователя по username.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// checkUsername сообщает о занятом username до хэширования пароля.
func checkUsername(ctx context.Context, users UserLookup, username string) error {
	_, err := users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return errUsernameTaken
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("createsuperuser.checkUsername: %w", err)
	}
}
