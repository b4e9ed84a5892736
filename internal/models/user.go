package models

import "time"

// Role is the authorization role of an identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DefaultProfileImage is assigned to identities registered without an image.
const DefaultProfileImage = "https://via.placeholder.com/150"

// User represents a registered identity.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Role         Role      `json:"role"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileUpdate carries the user-editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name         *string `json:"name" validate:"omitnil,notblank,max=100"`
	Email        *string `json:"email" validate:"omitnil,email"`
	Bio          *string `json:"bio" validate:"omitnil,max=500"`
	ProfileImage *string `json:"profileImage" validate:"omitnil,max=2048"`
}
