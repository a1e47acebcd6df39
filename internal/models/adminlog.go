package models

import "time"

// Действия журнала администратора.
const (
	ActionAdd    = "add"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Типы объектов журнала администратора.
const (
	ObjectUser        = "user"
	ObjectAffiliation = "affiliation"
)

// AdminLogEntry — запись журнала изменений, сделанных через админку.
type AdminLogEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   int64     `json:"object_id"`
	ObjectRepr string    `json:"object_repr"`
	Message    string    `json:"message,omitempty"`
	At         time.Time `json:"at"`
}
