package models

import "time"

// User is a row of the users table. Password and SecurityAnswer always hold
// bcrypt hashes, never plaintext.
type User struct {
	ID               string
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Password         string
	SecurityQuestion string
	SecurityAnswer   string
	LastLogin        *time.Time
	CreatedAt        time.Time
}

// Profile is the part of a User shown on the profile page.
type Profile struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		LastLogin: u.LastLogin,
	}
}
