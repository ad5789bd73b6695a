package domain

import "time"

// Persona is the base person record (personas table). Electores, rol de
// lista and comisiones all hang off a persona.
type Persona struct {
	ID              int        `db:"id" json:"id"`
	Cedula          string     `db:"cedula" json:"cedula"`                     // nullable in DB, "" when absent
	Nombre          string     `db:"nombre" json:"nombre"`                     // NOT NULL
	NroSocio        string     `db:"nro_socio" json:"nro_socio"`               // nullable
	FechaNacimiento *time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento"` // DATE, nullable
	Telefono        string     `db:"telefono" json:"telefono"`                 // nullable
	Celular         string     `db:"celular" json:"celular"`                   // nullable
	Email           string     `db:"email" json:"email"`                       // nullable
	Direccion       string     `db:"direccion" json:"direccion"`               // nullable, overwritten by the enviar-lista confirmation
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
