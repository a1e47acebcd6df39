// Package password хэширует пароли пользователей с помощью bcrypt.
//
// Пароль в открытом виде никогда не сохраняется: в хранилище попадает только
// результат GetHash. Rehash нужен форме редактирования, которая возвращает
// сохранённый хэш как есть, если пароль не меняли.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes — предел bcrypt на длину пароля в байтах.
const MaxBytes = 72

// ErrTooLong возвращается для паролей длиннее MaxBytes байт.
var ErrTooLong = errors.New("password is longer than 72 bytes")

// GetHash возвращает bcrypt-хэш пароля.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > MaxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash проверяет пароль по хэшу. Возвращает nil при совпадении.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Rehash сравнивает значение из формы с сохранённым хэшем.
// Если значение не изменилось, возвращается сохранённый хэш, иначе значение
// считается новым паролем и хэшируется заново.
func Rehash(stored, submitted string) (string, error) {
	if submitted == stored {
		return stored, nil
	}
	return GetHash(submitted)
}
