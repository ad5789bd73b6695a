package flow

import (
	"testing"

	"campana-api/internal/domain"

	"github.com/stretchr/testify/require"
)

func preguntasFixture(ids ...int) []domain.Pregunta {
	out := make([]domain.Pregunta, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Pregunta{ID: id, Tipo: domain.PreguntaBoolean, Activa: true})
	}
	return out
}

func regla(origen int, valor *string, destino *int) domain.Regla {
	return domain.Regla{OrigenID: origen, Valor: valor, DestinoID: destino}
}

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestAdvancePositionalFallback(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)

	tests := []struct {
		name      string
		currentID int
		want      *int
	}{
		{"first to second", 1, intp(2)},
		{"second to third", 2, intp(3)},
		{"last terminates", 3, nil},
		{"unknown id terminates", 99, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.currentID, "cualquiera", preguntas, nil)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAdvanceExactRule(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)
	reglas := []domain.Regla{
		regla(1, strp("No"), nil),     // terminate on No
		regla(1, strp("Si"), intp(3)), // jump on Si
	}

	require.Nil(t, Advance(1, "No", preguntas, reglas))
	require.Equal(t, intp(3), Advance(1, "Si", preguntas, reglas))
	// unmatched value falls back to order
	require.Equal(t, intp(2), Advance(1, "Quizas", preguntas, reglas))
}

func TestAdvanceExactMatchIsCaseSensitive(t *testing.T) {
	preguntas := preguntasFixture(1, 2)
	reglas := []domain.Regla{regla(1, strp("Si"), nil)}

	// "si" is not "Si": no rule match, positional fallback applies
	require.Equal(t, intp(2), Advance(1, "si", preguntas, reglas))
}

func TestAdvanceWildcardRule(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)
	reglas := []domain.Regla{regla(1, nil, intp(3))}

	// any answer jumps straight to 3, skipping 2
	require.Equal(t, intp(3), Advance(1, "Si", preguntas, reglas))
	require.Equal(t, intp(3), Advance(1, "No", preguntas, reglas))
	require.Equal(t, intp(3), Advance(1, "", preguntas, reglas))
}

func TestAdvanceExactBeatsWildcardBeatsFallback(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3, 4)
	reglas := []domain.Regla{
		regla(1, nil, intp(4)),        // wildcard
		regla(1, strp("Si"), intp(3)), // exact, listed after the wildcard
	}

	// exact wins regardless of slice position
	require.Equal(t, intp(3), Advance(1, "Si", preguntas, reglas))
	// wildcard beats positional fallback
	require.Equal(t, intp(4), Advance(1, "No", preguntas, reglas))
}

func TestAdvanceDuplicateExactRulesFirstWins(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)
	reglas := []domain.Regla{
		regla(1, strp("Si"), intp(3)),
		regla(1, strp("Si"), nil),
	}

	require.Equal(t, intp(3), Advance(1, "Si", preguntas, reglas))
}

func TestAdvanceEmptyValorIsExactMatch(t *testing.T) {
	preguntas := preguntasFixture(1, 2)
	reglas := []domain.Regla{regla(1, strp(""), nil)}

	// an empty-string trigger is a real value, distinct from the wildcard
	require.Nil(t, Advance(1, "", preguntas, reglas))
	require.Equal(t, intp(2), Advance(1, "algo", preguntas, reglas))
}

func TestAdvanceIsDeterministicAndPure(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)
	reglas := []domain.Regla{
		regla(1, strp("Si"), intp(3)),
		regla(2, nil, nil),
	}

	first := Advance(1, "Si", preguntas, reglas)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Advance(1, "Si", preguntas, reglas))
	}
	// inputs unchanged
	require.Equal(t, preguntasFixture(1, 2, 3), preguntas)
	require.Equal(t, []domain.Regla{
		regla(1, strp("Si"), intp(3)),
		regla(2, nil, nil),
	}, reglas)
}
