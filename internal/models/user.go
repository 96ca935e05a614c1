package models

import "time"

// Role is the flat authorization role of a user.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleInterviewer
}

// User represents an application user mirrored from the identity provider.
// Identity is the provider's subject id and never changes after creation.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Identity  string    `bson:"identity" json:"identity"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Role      Role      `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsInterviewer is a nil-safe role check.
func (u *User) IsInterviewer() bool {
	return u != nil && u.Role == RoleInterviewer
}
