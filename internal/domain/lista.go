package domain

import "time"

// RolListaTipo organ of the electoral list a persona belongs to.
type RolListaTipo string

const (
	ListaDirigente              RolListaTipo = "Dirigente"
	ListaComisionElectoral      RolListaTipo = "Comision_Electoral"
	ListaComisionFiscal         RolListaTipo = "Comision_Fiscal"
	ListaAsambleaRepresentativa RolListaTipo = "Asamblea_Representativa"
)

// ValidRolListaTipo reports whether s is a known roster type.
func ValidRolListaTipo(s string) bool {
	switch RolListaTipo(s) {
	case ListaDirigente, ListaComisionElectoral, ListaComisionFiscal, ListaAsambleaRepresentativa:
		return true
	}
	return false
}

// RolLista membership of a persona in the electoral list roster
// (rol_lista table).
type RolLista struct {
	ID           int          `db:"id" json:"id"`
	PersonaID    int          `db:"persona_id" json:"persona_id"`
	Tipo         RolListaTipo `db:"tipo" json:"tipo"`
	Posicion     string       `db:"posicion" json:"posicion"`             // nullable
	QuienLoTrajo string       `db:"quien_lo_trajo" json:"quien_lo_trajo"` // nullable
	Comentario   string       `db:"comentario" json:"comentario"`         // nullable
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// ComisionTipo club commission a persona expressed interest in.
type ComisionTipo string

const (
	ComisionFutbol          ComisionTipo = "Futbol"
	ComisionFormativas      ComisionTipo = "Formativas"
	ComisionBasketball      ComisionTipo = "Basketball"
	ComisionDeportesAnexos  ComisionTipo = "Deportes_Anexos"
	ComisionSocial          ComisionTipo = "Social"
	ComisionInfraestructura ComisionTipo = "Infraestructura"
	ComisionAUFI            ComisionTipo = "AUFI"
)

// ValidComisionTipo reports whether s is a known commission.
func ValidComisionTipo(s string) bool {
	switch ComisionTipo(s) {
	case ComisionFutbol, ComisionFormativas, ComisionBasketball, ComisionDeportesAnexos,
		ComisionSocial, ComisionInfraestructura, ComisionAUFI:
		return true
	}
	return false
}

// ComisionInteres interest of a persona in a commission (comision_interes
// table).
type ComisionInteres struct {
	ID        int          `db:"id" json:"id"`
	PersonaID int          `db:"persona_id" json:"persona_id"`
	Comision  ComisionTipo `db:"comision" json:"comision"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
