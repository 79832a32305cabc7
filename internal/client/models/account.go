package models

import "time"

// Account holds the credentials of a User. Only the salt and the password
// verifier are stored, never the password.
type Account struct {
	ID       string
	Email    string
	Salt     []byte
	Verifier []byte
}

func (a Account) User() User {
	return User{ID: a.ID, Email: a.Email}
}

type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
