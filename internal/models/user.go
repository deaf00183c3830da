package models

import "github.com/google/uuid"

// User is the slice of an account this service reads. Accounts themselves
// are managed elsewhere.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	ProfileImage string    `json:"profile_image"`
	IsTenant     bool      `json:"is_tenant"`
	IsOwner      bool      `json:"is_owner"`
	IsAdmin      bool      `json:"is_admin"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
