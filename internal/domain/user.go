package domain

import "time"

type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleStallOwner Role = "stall_owner"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsPrivileged reports whether the user may operate a scanner.
func (u User) IsPrivileged() bool {
	return u.Role == RoleAdmin
}

type Volunteer struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActorKind tags which table an actor id refers to.
type ActorKind string

const (
	ActorVolunteer ActorKind = "volunteer"
	ActorUser      ActorKind = "user"
)

func (k ActorKind) Valid() bool {
	return k == ActorVolunteer || k == ActorUser
}

type Actor struct {
	ID   uint      `json:"id"`
	Kind ActorKind `json:"kind"`
	Name string    `json:"name"`
	Role Role      `json:"role,omitempty"`
}
