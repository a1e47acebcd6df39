package models

// UserFilter описывает условия выборки пользователей для списка и выгрузки.
// Пустые строки и nil не накладывают условий. Limit == 0 означает выборку
// без пагинации.
type UserFilter struct {
	IsActive *bool  // Фильтр по флагу активности
	LastName string // Подстрока фамилии без учёта регистра
	Email    string // Подстрока email без учёта регистра
	Search   string // Подстрока по username, фамилии, имени и email
	Ordering string // Ключ сортировки, например "username" или "-date_joined"
	Limit    int
	Offset   int
}
