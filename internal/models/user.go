package models

import (
	"strings"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

type User struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUser(name, email string) *User {
	now := time.Now()
	return &User{Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
}

func (u *User) Key() string { return u.ID }

func (u *User) Validate() error {
	if u.Name == "" {
		return shared.Invalid("user name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return shared.Invalid("invalid email %q", u.Email)
	}
	return nil
}
