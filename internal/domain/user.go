package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleLandlord Role = "LANDLORD"
	RoleTenant   Role = "TENANT"
	// RolePublic marks an unauthenticated caller. Never persisted.
	RolePublic Role = ""
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url"`
	Role         Role      `json:"role"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// Caller is the authenticated (or anonymous) identity a request acts as.
// Supplied by the auth layer; the services trust it without re-verification.
type Caller struct {
	UserID int64
	Role   Role
}

func (c Caller) Anonymous() bool { return c.Role == RolePublic }
func (c Caller) Admin() bool     { return c.Role == RoleAdmin }
