package domain

import "time"

// GastoRubro expense category.
type GastoRubro string

const (
	RubroPublicidadRadio  GastoRubro = "Publicidad_Radio"
	RubroTV               GastoRubro = "TV"
	RubroRedes            GastoRubro = "Redes"
	RubroComida           GastoRubro = "Comida"
	RubroEvento           GastoRubro = "Evento"
	RubroSonido           GastoRubro = "Sonido"
	RubroCommunityManager GastoRubro = "Community_Manager"
	RubroDisenadorGrafico GastoRubro = "Disenador_Grafico"
)

// ValidGastoRubro reports whether s is a known expense category.
func ValidGastoRubro(s string) bool {
	switch GastoRubro(s) {
	case RubroPublicidadRadio, RubroTV, RubroRedes, RubroComida,
		RubroEvento, RubroSonido, RubroCommunityManager, RubroDisenadorGrafico:
		return true
	}
	return false
}

// Gasto campaign expense (gastos table). Admin-only.
type Gasto struct {
	ID              int        `db:"id" json:"id"`
	Rubro           GastoRubro `db:"rubro" json:"rubro"`
	Monto           float64    `db:"monto" json:"monto"`
	Fecha           time.Time  `db:"fecha" json:"fecha"`                       // DATE
	Concepto        string     `db:"concepto" json:"concepto"`                 // nullable
	ProgramaCampana string     `db:"programa_campana" json:"programa_campana"` // nullable
	QuienPago       string     `db:"quien_pago" json:"quien_pago"`             // nullable
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
