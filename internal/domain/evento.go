package domain

import "time"

// Evento campaign calendar entry (eventos table).
type Evento struct {
	ID          int       `db:"id" json:"id"`
	Nombre      string    `db:"nombre" json:"nombre"`
	Descripcion string    `db:"descripcion" json:"descripcion"` // nullable
	Fecha       time.Time `db:"fecha" json:"fecha"`
	Direccion   string    `db:"direccion" json:"direccion"` // nullable
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
