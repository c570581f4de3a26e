package domain

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Caller is the verified identity of whoever invoked an operation.
type Caller struct {
	UserID  int32
	IsAdmin bool
}

// CanAccess reports whether the caller owns the resource or is an admin.
func (c Caller) CanAccess(ownerID int32) bool {
	return c.IsAdmin || c.UserID == ownerID
}
