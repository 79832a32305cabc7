package models

// DefaultProfileName is given to profiles created at sign-up.
const DefaultProfileName = "New User"

type Profile struct {
	ID    string
	Name  string
	Email string
}

// User is the authenticated identity.
type User struct {
	ID    string
	Email string
}
