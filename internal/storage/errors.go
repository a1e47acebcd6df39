// Package storage содержит ошибки слоя хранения, общие для репозиториев и сервисов.
package storage

import "errors"

var (
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken возвращается при нарушении уникальности username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAffiliationMissing возвращается, если указанная организация не существует.
	ErrAffiliationMissing = errors.New("affiliation does not exist")
)
