package domain

import "time"

// ElectorEstado lifecycle of an elector through the campaign.
type ElectorEstado string

const (
	EstadoPendiente    ElectorEstado = "Pendiente"
	EstadoLlamado      ElectorEstado = "Llamado"
	EstadoAcepto       ElectorEstado = "Acepto"
	EstadoParaEnviar   ElectorEstado = "Para_Enviar"
	EstadoSobreEnviado ElectorEstado = "Sobre_Enviado"
	EstadoDescartado   ElectorEstado = "Descartado"
)

// ValidElectorEstado reports whether s is one of the known estados.
func ValidElectorEstado(s string) bool {
	switch ElectorEstado(s) {
	case EstadoPendiente, EstadoLlamado, EstadoAcepto, EstadoParaEnviar, EstadoSobreEnviado, EstadoDescartado:
		return true
	}
	return false
}

// Elector is a tracked voter record (electores table), linked to a persona
// and optionally assigned to a volunteer perfil.
type Elector struct {
	ID          int           `db:"id" json:"id"`
	PersonaID   int           `db:"persona_id" json:"persona_id"`
	Estado      ElectorEstado `db:"estado" json:"estado"`
	Notas       string        `db:"notas" json:"notas"`           // nullable
	AsignadoA   string        `db:"asignado_a" json:"asignado_a"` // perfil UUID, "" = unassigned
	EnviarLista bool          `db:"enviar_lista" json:"enviar_lista"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// ElectorConPersona is the join used by listing pages and the call screen.
type ElectorConPersona struct {
	Elector
	Persona Persona `json:"persona"`
}
