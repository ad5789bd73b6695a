package domain

import "time"

// CampanaEstado delivery state of an email campaign.
type CampanaEstado string

const (
	CampanaBorrador CampanaEstado = "Borrador"
	CampanaEnviando CampanaEstado = "Enviando"
	CampanaEnviada  CampanaEstado = "Enviada"
)

// Campaign segments resolve to recipient personas at send time.
const (
	SegmentoTodos      = "todos"      // every persona with an email
	SegmentoAceptaron  = "aceptaron"  // electores in estado Acepto / Para_Enviar / Sobre_Enviado
	SegmentoPendientes = "pendientes" // electores still in estado Pendiente
	SegmentoLista      = "lista"      // personas with a rol_lista membership
)

// CampanaEmail bulk email campaign (campanas_email table).
type CampanaEmail struct {
	ID           int           `db:"id" json:"id"`
	Asunto       string        `db:"asunto" json:"asunto"`
	TemplateHTML string        `db:"template_html" json:"template_html"`
	Estado       CampanaEstado `db:"estado" json:"estado"`
	Nombre       string        `db:"nombre" json:"nombre"`     // nullable
	Segmento     string        `db:"segmento" json:"segmento"` // nullable, one of the Segmento* values
	Enviados     int           `db:"enviados" json:"enviados"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}
