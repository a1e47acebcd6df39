// Package admin описывает представление пользователей и организаций в
// админке: колонки списка, фильтры, поиск, сортировку и выгрузку в CSV.
package admin

import (
	"html/template"
	"strings"

	"github.com/magabrotheeeer/accounts-admin/internal/models"
)

// Column описывает колонку списка: поле и заголовок.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// UserColumns — колонки списка пользователей в порядке отображения.
var UserColumns = []Column{
	{Field: "username", Header: "ユーザID"},
	{Field: "name", Header: "氏名"},
	{Field: "email", Header: "メールアドレス"},
	{Field: "merge_address", Header: "住所"},
}

// AffiliationColumns — колонки списка организаций.
var AffiliationColumns = []Column{
	{Field: "name", Header: "名称"},
	{Field: "delete_flg", Header: "削除フラグ"},
}

// DefaultOrdering — сортировка списка пользователей по умолчанию.
const DefaultOrdering = "username"

// OrderingKeys — допустимые ключи параметра сортировки "o".
var OrderingKeys = []string{
	"username", "-username",
	"last_name", "-last_name",
	"date_joined", "-date_joined",
}

// SearchFields — поля, по которым работает поиск "q".
var SearchFields = []string{"username", "last_name", "first_name", "email"}

// UserRow — строка списка пользователей.
type UserRow struct {
	ID           int64         `json:"id"`
	Username     string        `json:"username"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	MergeAddress template.HTML `json:"merge_address"`
}

// NewUserRow собирает строку списка из пользователя.
func NewUserRow(u *models.User) UserRow {
	return UserRow{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.FullName(),
		Email:        u.Email,
		MergeAddress: MergeAddress(u),
	}
}

// MergeAddress склеивает непустые части адреса через <br>.
// Части экранируются, перевод строки после последней части не ставится.
func MergeAddress(u *models.User) template.HTML {
	parts := make([]string, 0, 4)
	for _, p := range []string{u.Zip, u.Prefecture, u.City, u.Address} {
		if p == "" {
			continue
		}
		parts = append(parts, template.HTMLEscapeString(p))
	}
	return template.HTML(strings.Join(parts, "<br>"))
}
