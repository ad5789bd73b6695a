package domain

import "time"

// UserRol role of a dashboard user.
type UserRol string

const (
	RolAdmin      UserRol = "Admin"
	RolVoluntario UserRol = "Voluntario"
)

// Perfil dashboard user profile (perfiles table). Authentication is
// delegated to the identity provider; this record only carries the role
// and display data keyed by the provider's user id.
type Perfil struct {
	ID        string    `db:"id" json:"id"` // UUID from the identity provider
	Nombre    string    `db:"nombre" json:"nombre"`
	Email     string    `db:"email" json:"email"`
	Rol       UserRol   `db:"rol" json:"rol"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"` // nullable
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin convenience check used by handlers and services.
func (p *Perfil) IsAdmin() bool { return p != nil && p.Rol == RolAdmin }
