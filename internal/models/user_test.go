package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_String(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "full name", user: User{LastName: "山田", FirstName: "太郎"}, want: "山田 太郎"},
		{name: "only last name", user: User{LastName: "山田"}, want: "山田"},
		{name: "only first name", user: User{FirstName: "太郎"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.String())
		})
	}
}

func TestUser_FullName(t *testing.T) {
	u := User{LastName: "Yamada", FirstName: "Taro"}
	assert.Equal(t, "Yamada Taro", u.FullName())
	assert.Equal(t, "Yamada", u.ShortName())
}

func TestUserForm_Active(t *testing.T) {
	f := false
	assert.True(t, UserForm{}.Active())
	assert.False(t, UserForm{IsActive: &f}.Active())
}
