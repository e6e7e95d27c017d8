package entity

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidEmail = errors.New("invalid email")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
