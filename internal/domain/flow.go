package domain

import "time"

// PreguntaTipo answer kind of a flow question.
type PreguntaTipo string

const (
	PreguntaBoolean PreguntaTipo = "boolean"
	PreguntaSelect  PreguntaTipo = "select"
	PreguntaText    PreguntaTipo = "text"
)

// ValidPreguntaTipo reports whether s is a known question kind.
func ValidPreguntaTipo(s string) bool {
	switch PreguntaTipo(s) {
	case PreguntaBoolean, PreguntaSelect, PreguntaText:
		return true
	}
	return false
}

// AccionEnviarLista is the only question action currently defined: an
// affirmative answer suspends the flow to confirm a mailing address.
const AccionEnviarLista = "enviar_lista"

// Answer values for boolean questions. Routing compares raw strings, so
// these are the canonical values the UI submits.
const (
	RespuestaSi = "Si"
	RespuestaNo = "No"
)

// Pregunta is one node of the call flow (preguntas_flow table). Only rows
// with Activa=true, ordered by OrdenDefault (nulls last) then ID, are ever
// loaded into a call session.
type Pregunta struct {
	ID           int          `db:"id" json:"id"`
	OrdenDefault *int         `db:"orden_default" json:"orden_default"` // nullable rank, not required unique
	Texto        string       `db:"texto" json:"texto"`
	Tipo         PreguntaTipo `db:"tipo" json:"tipo"`
	Opciones     []string     `db:"opciones" json:"opciones"` // non-empty iff Tipo == select
	Activa       bool         `db:"activa" json:"activa"`
	Accion       string       `db:"accion" json:"accion"` // "" or AccionEnviarLista
	// Terminal-outcome hints for boolean questions: when answering this
	// question ends the flow, the matching hint prefills the resultado.
	ResultadoSi *Resultado `db:"resultado_si" json:"resultado_si,omitempty"`
	ResultadoNo *Resultado `db:"resultado_no" json:"resultado_no,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Regla routes answers between questions (reglas_flow table).
// Valor == nil is the wildcard ("any answer"); Destino == nil terminates
// the flow.
type Regla struct {
	ID        int       `db:"id" json:"id"`
	OrigenID  int       `db:"pregunta_origen_id" json:"pregunta_origen_id"`
	Valor     *string   `db:"respuesta_valor" json:"respuesta_valor"`
	DestinoID *int      `db:"pregunta_destino_id" json:"pregunta_destino_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PreguntaConReglas is the flow-config admin view: a question with the
// rules originating from it.
type PreguntaConReglas struct {
	Pregunta
	Reglas []Regla `json:"reglas"`
}
