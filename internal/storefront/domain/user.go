package domain

import "time"

// User is the public view of an account.
type User struct {
	ID        string
	Email     string
	FullName  string
	CreatedAt time.Time
}

// Credentials is a user record together with its stored password hash.
// It never leaves the identity service.
type Credentials struct {
	User         User
	PasswordHash string
}
