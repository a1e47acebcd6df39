// Package models содержит доменные структуры учётных записей и организаций,
// а также формы и фильтры, которые приходят из административного интерфейса.
package models

import "time"

// User представляет учётную запись пользователя.
//
// PasswordHash хранит bcrypt-хэш пароля. Пустые почтовые поля и email
// сохраняются в базе как NULL.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"password"`
	LastName      string    `json:"last_name"`
	FirstName     string    `json:"first_name"`
	Zip           string    `json:"zip"`
	Prefecture    string    `json:"prefecture"`
	City          string    `json:"city"`
	Address       string    `json:"address"`
	Email         string    `json:"email"`
	DateJoined    time.Time `json:"date_joined"`
	IsActive      bool      `json:"is_active"`
	IsStaff       bool      `json:"is_staff"`
	IsSuperuser   bool      `json:"is_superuser"`
	AffiliationID *int64    `json:"affiliation_id"`
}

// FullName возвращает фамилию и имя через пробел.
func (u User) FullName() string {
	return u.LastName + " " + u.FirstName
}

// ShortName возвращает фамилию.
func (u User) ShortName() string {
	return u.LastName
}

// String возвращает полное имя, если заданы обе части, иначе только фамилию.
func (u User) String() string {
	if u.LastName != "" && u.FirstName != "" {
		return u.FullName()
	}
	return u.LastName
}

// UserForm принимает данные формы создания и редактирования пользователя.
//
// Поле Password на редактировании содержит то, что показала форма: либо
// сохранённый хэш без изменений, либо новый пароль в открытом виде. Пустое
// значение на редактировании оставляет пароль прежним.
type UserForm struct {
	Username      string `json:"username" validate:"required,max=30"`
	Password      string `json:"password" validate:"max=128"`
	LastName      string `json:"last_name" validate:"required,max=30"`
	FirstName     string `json:"first_name" validate:"required,max=30"`
	Zip           string `json:"zip" validate:"omitempty,max=8"`
	Prefecture    string `json:"prefecture" validate:"omitempty,max=50"`
	City          string `json:"city" validate:"omitempty,max=100"`
	Address       string `json:"address" validate:"omitempty,max=100"`
	Email         string `json:"email" validate:"omitempty,email,max=254"`
	IsActive      *bool  `json:"is_active"`
	IsStaff       bool   `json:"is_staff"`
	IsSuperuser   bool   `json:"is_superuser"`
	AffiliationID *int64 `json:"affiliation_id"`
}

// Active возвращает значение флага активности, по умолчанию true.
func (f UserForm) Active() bool {
	if f.IsActive == nil {
		return true
	}
	return *f.IsActive
}
