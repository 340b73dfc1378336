package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// PublicUser is the user shape returned by register/login responses.
type PublicUser struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

type AuthResult struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
