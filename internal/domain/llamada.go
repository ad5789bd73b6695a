package domain

import "time"

// Resultado final categorical result of a call.
type Resultado string

const (
	ResultadoNosVota          Resultado = "Nos_Vota"
	ResultadoNoNosVota        Resultado = "No_Nos_Vota"
	ResultadoNoAtendio        Resultado = "No_Atendio"
	ResultadoNumeroIncorrecto Resultado = "Numero_Incorrecto"
)

// ValidResultado reports whether s is one of the four fixed outcomes.
func ValidResultado(s string) bool {
	switch Resultado(s) {
	case ResultadoNosVota, ResultadoNoNosVota, ResultadoNoAtendio, ResultadoNumeroIncorrecto:
		return true
	}
	return false
}

// ResultadoToEstado fixed outcome → elector estado mapping. Nos_Vota has
// one contextual exception resolved at submit time: if the elector is
// flagged enviar_lista, the estado becomes Para_Enviar instead of Acepto.
var ResultadoToEstado = map[Resultado]ElectorEstado{
	ResultadoNosVota:          EstadoAcepto,
	ResultadoNoNosVota:        EstadoDescartado,
	ResultadoNoAtendio:        EstadoLlamado,
	ResultadoNumeroIncorrecto: EstadoLlamado,
}

// Llamada is a finalized call record (llamadas table). Created exactly once
// per call session, never mutated.
type Llamada struct {
	ID           int       `db:"id" json:"id"`
	ElectorID    int       `db:"elector_id" json:"elector_id"`
	VoluntarioID string    `db:"voluntario_id" json:"voluntario_id"` // perfil UUID of the caller
	Resultado    Resultado `db:"resultado" json:"resultado"`
	Fecha        time.Time `db:"fecha" json:"fecha"` // DATE
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Respuesta one collected answer (respuestas_flow table). Order of the
// slice is call order.
type Respuesta struct {
	PreguntaID int    `db:"pregunta_id" json:"pregunta_id"`
	Valor      string `db:"valor" json:"valor"`
}

// LlamadaConDetalles listing view joining elector and caller names.
type LlamadaConDetalles struct {
	Llamada
	ElectorNombre    string `json:"elector_nombre"`
	VoluntarioNombre string `json:"voluntario_nombre"`
}
