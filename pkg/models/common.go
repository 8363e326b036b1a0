package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	RoleAdmin   = `admin`
	RoleManager = `manager`
	RoleStaff   = `staff`
	RoleTrial   = `trial`
)

type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"userID"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Area   string `json:"area"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// VersionConflictError is returned when an optimistic-locked update loses the
// race. Server carries the row as currently persisted so the caller can merge
// and re-apply.
type VersionConflictError struct {
	Expected int
	Current  int
	Server   interface{}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("concurrent modification: expected version %d, current version %d", e.Expected, e.Current)
}
