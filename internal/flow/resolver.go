package flow

import "campana-api/internal/domain"

// Advance resolves the next question after answering currentID with valor.
// Resolution order:
//
//  1. exact rule: origen == currentID and respuesta_valor == valor
//     (case-sensitive string equality, no normalization)
//  2. wildcard rule: origen == currentID and respuesta_valor is null
//  3. positional fallback: the question after currentID in list order
//
// A nil return means the flow terminates (rule with null destino, current
// question last or unknown). Rules are scanned in slice order, so when the
// configuration contains duplicate matches the first one wins. Pure
// function: never mutates its inputs.
func Advance(currentID int, valor string, preguntas []domain.Pregunta, reglas []domain.Regla) *int {
	for i := range reglas {
		r := &reglas[i]
		if r.OrigenID == currentID && r.Valor != nil && *r.Valor == valor {
			return r.DestinoID
		}
	}

	for i := range reglas {
		r := &reglas[i]
		if r.OrigenID == currentID && r.Valor == nil {
			return r.DestinoID
		}
	}

	for i := range preguntas {
		if preguntas[i].ID == currentID {
			if i == len(preguntas)-1 {
				return nil
			}
			next := preguntas[i+1].ID
			return &next
		}
	}
	return nil
}
