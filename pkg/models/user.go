package models

import "time"

type UserRequest struct {
	ID           *int    `json:"id" db:"id"`
	LastName     *string `json:"lastName" db:"last_name"`
	FirstName    *string `json:"firstName" db:"first_name"`
	Email        *string `json:"email" db:"email"`
	PasswordHash *string `json:"-" db:"password_hash"`
	Role         *string `json:"role" db:"role"`
	Area         *string `json:"area" db:"area"`
	ChatID       *int64  `json:"chatID" db:"chat_id"`
	Active       *bool   `json:"active" db:"active"`
	Password     *string `json:"password" db:"-"`
}

type User struct {
	ID           int       `json:"id" db:"id"`
	LastName     string    `json:"lastName" db:"last_name"`
	FirstName    string    `json:"firstName" db:"first_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Area         string    `json:"area" db:"area"`
	ChatID       *int64    `json:"-" db:"chat_id"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
