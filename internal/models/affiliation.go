package models

// Affiliation — организация, к которой может относиться пользователь.
// IsDeleted помечает запись как удалённую без физического удаления.
type Affiliation struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"delete_flg"`
}

func (a Affiliation) String() string {
	return a.Name
}

// AffiliationForm принимает данные формы организации.
type AffiliationForm struct {
	Name      string `json:"name" validate:"required,max=10"`
	IsDeleted bool   `json:"delete_flg"`
}
