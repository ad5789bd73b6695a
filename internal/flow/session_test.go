package flow

import (
	"testing"

	"campana-api/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestSession(preguntas []domain.Pregunta, reglas []domain.Regla) *Session {
	return NewSession("sess-1", 10, 20, "vol-1", preguntas, reglas)
}

// requireSymmetry checks that the answered pregunta ids are exactly the
// history entries, in order.
func requireSymmetry(t *testing.T, s *Session) {
	t.Helper()
	require.Len(t, s.Respuestas, len(s.History))
	for i, r := range s.Respuestas {
		require.Equal(t, s.History[i], r.PreguntaID)
	}
}

func TestNewSessionStartsAtFirstQuestion(t *testing.T) {
	s := newTestSession(preguntasFixture(1, 2, 3), nil)

	require.Equal(t, PhaseCalling, s.Phase)
	require.NotNil(t, s.CurrentID)
	require.Equal(t, 1, *s.CurrentID)
	require.Equal(t, 1, s.Current().ID)
}

func TestNewSessionEmptyFlowSkipsToOutcome(t *testing.T) {
	s := newTestSession(nil, nil)

	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Nil(t, s.CurrentID)
	require.Nil(t, s.Current())
}

func TestAnswerWalksSequence(t *testing.T) {
	s := newTestSession(preguntasFixture(1, 2, 3), nil)

	intercepted, err := s.Answer("Si")
	require.NoError(t, err)
	require.False(t, intercepted)
	require.Equal(t, 2, *s.CurrentID)

	_, err = s.Answer("No")
	require.NoError(t, err)
	require.Equal(t, 3, *s.CurrentID)

	_, err = s.Answer("bien")
	require.NoError(t, err)
	require.Nil(t, s.CurrentID)
	require.Equal(t, PhaseCapturingOutcome, s.Phase)

	require.Equal(t, []domain.Respuesta{
		{PreguntaID: 1, Valor: "Si"},
		{PreguntaID: 2, Valor: "No"},
		{PreguntaID: 3, Valor: "bien"},
	}, s.Respuestas)
	requireSymmetry(t, s)
}

func TestAnswerTerminationRule(t *testing.T) {
	// answering 1 with No terminates even though 2 and 3 exist
	s := newTestSession(preguntasFixture(1, 2, 3), []domain.Regla{
		regla(1, strp("No"), nil),
	})

	_, err := s.Answer("No")
	require.NoError(t, err)
	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Nil(t, s.CurrentID)
}

func TestAnswerDanglingDestinationTerminates(t *testing.T) {
	// rule points at a question that is not in the active snapshot
	s := newTestSession(preguntasFixture(1, 2), []domain.Regla{
		regla(1, strp("Si"), intp(77)),
	})

	_, err := s.Answer("Si")
	require.NoError(t, err)
	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Nil(t, s.CurrentID)
}

func TestAnswerOutsideCallingPhase(t *testing.T) {
	s := newTestSession(nil, nil)

	_, err := s.Answer("Si")
	require.ErrorIs(t, err, ErrNotCalling)
}

func TestEnviarListaInterception(t *testing.T) {
	preguntas := preguntasFixture(1, 2, 3)
	preguntas[1].Accion = domain.AccionEnviarLista
	s := newTestSession(preguntas, nil)

	_, err := s.Answer("No")
	require.NoError(t, err)
	require.Equal(t, 2, *s.CurrentID)

	// affirmative answer on the tagged question suspends advancement
	intercepted, err := s.Answer("Si")
	require.NoError(t, err)
	require.True(t, intercepted)
	require.Equal(t, 2, *s.CurrentID)
	require.NotNil(t, s.Pending)
	require.Equal(t, PendingAnswer{PreguntaID: 2, Valor: "Si"}, *s.Pending)
	// the answer is not recorded yet
	require.Len(t, s.Respuestas, 1)

	// a second answer while pending is rejected
	_, err = s.Answer("Si")
	require.ErrorIs(t, err, ErrPending)

	// applying the pending answer routes normally from question 2
	require.NoError(t, s.ApplyPending())
	require.Nil(t, s.Pending)
	require.Equal(t, 3, *s.CurrentID)
	require.Equal(t, []domain.Respuesta{
		{PreguntaID: 1, Valor: "No"},
		{PreguntaID: 2, Valor: "Si"},
	}, s.Respuestas)
	requireSymmetry(t, s)
}

func TestEnviarListaNegativeAnswerBypassesInterceptor(t *testing.T) {
	preguntas := preguntasFixture(1, 2)
	preguntas[0].Accion = domain.AccionEnviarLista
	s := newTestSession(preguntas, nil)

	intercepted, err := s.Answer("No")
	require.NoError(t, err)
	require.False(t, intercepted)
	require.Equal(t, 2, *s.CurrentID)
}

func TestApplyPendingWithoutPending(t *testing.T) {
	s := newTestSession(preguntasFixture(1), nil)
	require.ErrorIs(t, s.ApplyPending(), ErrNoPending)
}

func TestBackRemovesAnswerAndRestoresPointer(t *testing.T) {
	s := newTestSession(preguntasFixture(1, 2, 3), nil)

	_, _ = s.Answer("Si")
	_, _ = s.Answer("No")
	require.Equal(t, 3, *s.CurrentID)

	s.Back()
	require.Equal(t, 2, *s.CurrentID)
	require.Equal(t, []domain.Respuesta{{PreguntaID: 1, Valor: "Si"}}, s.Respuestas)
	require.Equal(t, []int{1}, s.History)
	requireSymmetry(t, s)

	// back to the start: empty accumulator, empty history
	s.Back()
	require.Equal(t, 1, *s.CurrentID)
	require.Empty(t, s.Respuestas)
	require.Empty(t, s.History)

	// no-op on empty history
	s.Back()
	require.Equal(t, 1, *s.CurrentID)
	require.Equal(t, PhaseCalling, s.Phase)
}

func TestBackFromOutcomePhase(t *testing.T) {
	s := newTestSession(preguntasFixture(1), nil)
	_, _ = s.Answer("Si")
	require.Equal(t, PhaseCapturingOutcome, s.Phase)

	s.Back()
	require.Equal(t, PhaseCalling, s.Phase)
	require.Equal(t, 1, *s.CurrentID)
	require.Empty(t, s.Respuestas)
	requireSymmetry(t, s)
}

func TestBackCancelsPending(t *testing.T) {
	preguntas := preguntasFixture(1, 2)
	preguntas[1].Accion = domain.AccionEnviarLista
	s := newTestSession(preguntas, nil)

	_, _ = s.Answer("No")
	intercepted, _ := s.Answer("Si")
	require.True(t, intercepted)

	s.Back()
	require.Nil(t, s.Pending)
	require.Equal(t, 1, *s.CurrentID)
	requireSymmetry(t, s)
}

func TestHistoryAnswerSymmetryUnderRandomWalk(t *testing.T) {
	// after any mix of answers and go-backs over distinct questions the
	// accumulator keys equal the history entries exactly
	s := newTestSession(preguntasFixture(1, 2, 3, 4, 5), nil)

	steps := []func(){
		func() { _, _ = s.Answer("a") },
		func() { _, _ = s.Answer("b") },
		func() { s.Back() },
		func() { _, _ = s.Answer("c") },
		func() { _, _ = s.Answer("d") },
		func() { s.Back() },
		func() { s.Back() },
		func() { _, _ = s.Answer("e") },
	}
	for _, step := range steps {
		step()
		requireSymmetry(t, s)
	}
}

func TestAnswerRevisitOverwritesEarlierAnswer(t *testing.T) {
	// a wildcard rule routes question 2 back to question 1
	s := newTestSession(preguntasFixture(1, 2), []domain.Regla{
		regla(2, nil, intp(1)),
	})

	_, _ = s.Answer("a")
	_, _ = s.Answer("b")
	require.Equal(t, 1, *s.CurrentID)

	// re-answering keeps a single accumulator entry per question
	_, err := s.Answer("c")
	require.NoError(t, err)
	require.Equal(t, []domain.Respuesta{
		{PreguntaID: 1, Valor: "c"},
		{PreguntaID: 2, Valor: "b"},
	}, s.Respuestas)
	require.Equal(t, []int{1, 2, 1}, s.History)
	require.Equal(t, 2, *s.CurrentID)

	// going back pops the revisit and drops its answer
	s.Back()
	require.Equal(t, 1, *s.CurrentID)
	require.Equal(t, []domain.Respuesta{{PreguntaID: 2, Valor: "b"}}, s.Respuestas)
	require.Equal(t, []int{1, 2}, s.History)
}

func TestSkipToOutcome(t *testing.T) {
	s := newTestSession(preguntasFixture(1, 2), nil)
	_, _ = s.Answer("Si")

	require.NoError(t, s.SkipToOutcome())
	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Nil(t, s.CurrentID)
	// the skipped question has no recorded answer
	require.Equal(t, []domain.Respuesta{{PreguntaID: 1, Valor: "Si"}}, s.Respuestas)

	require.ErrorIs(t, s.SkipToOutcome(), ErrNotCalling)
}

func TestSelectResultado(t *testing.T) {
	s := newTestSession(nil, nil)

	require.ErrorIs(t, s.SelectResultado("Invalido"), ErrBadOutcome)
	require.NoError(t, s.SelectResultado(domain.ResultadoNosVota))
	require.Equal(t, domain.ResultadoNosVota, *s.Resultado)

	// changing the choice before finalizing is allowed
	require.NoError(t, s.SelectResultado(domain.ResultadoNoAtendio))
	require.Equal(t, domain.ResultadoNoAtendio, *s.Resultado)
}

func TestSelectResultadoRequiresOutcomePhase(t *testing.T) {
	s := newTestSession(preguntasFixture(1), nil)
	require.ErrorIs(t, s.SelectResultado(domain.ResultadoNosVota), ErrNotCapturing)
}

func TestBooleanTerminalHintPrefillsResultado(t *testing.T) {
	nosVota := domain.ResultadoNosVota
	noNosVota := domain.ResultadoNoNosVota
	preguntas := preguntasFixture(1)
	preguntas[0].ResultadoSi = &nosVota
	preguntas[0].ResultadoNo = &noNosVota

	s := newTestSession(preguntas, nil)
	_, _ = s.Answer("No")

	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.NotNil(t, s.Resultado)
	require.Equal(t, domain.ResultadoNoNosVota, *s.Resultado)

	// prefill only, still replaceable
	require.NoError(t, s.SelectResultado(domain.ResultadoNoAtendio))
	require.Equal(t, domain.ResultadoNoAtendio, *s.Resultado)
}

func TestHintOnlyAppliesOnTermination(t *testing.T) {
	nosVota := domain.ResultadoNosVota
	preguntas := preguntasFixture(1, 2)
	preguntas[0].ResultadoSi = &nosVota

	s := newTestSession(preguntas, nil)
	_, _ = s.Answer("Si")

	// question 2 follows, flow did not terminate: no prefill
	require.Equal(t, PhaseCalling, s.Phase)
	require.Nil(t, s.Resultado)
}

func TestSubmitLifecycle(t *testing.T) {
	s := newTestSession(nil, nil)

	// finalize without a resultado is rejected
	require.ErrorIs(t, s.BeginSubmit(), ErrNoOutcome)

	require.NoError(t, s.SelectResultado(domain.ResultadoNosVota))
	require.NoError(t, s.BeginSubmit())
	require.Equal(t, PhaseSubmitting, s.Phase)

	// resubmission guard
	require.Error(t, s.BeginSubmit())

	// failure reverts, answers and resultado preserved
	s.FailSubmit()
	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Equal(t, domain.ResultadoNosVota, *s.Resultado)
	require.NoError(t, s.BeginSubmit())
}

func TestFullCallWalkthrough(t *testing.T) {
	// Q1 boolean, Q2 boolean with enviar_lista, Q3 text, no rules.
	preguntas := []domain.Pregunta{
		{ID: 1, Tipo: domain.PreguntaBoolean, Activa: true},
		{ID: 2, Tipo: domain.PreguntaBoolean, Activa: true, Accion: domain.AccionEnviarLista},
		{ID: 3, Tipo: domain.PreguntaText, Activa: true},
	}
	s := newTestSession(preguntas, nil)

	intercepted, err := s.Answer("No")
	require.NoError(t, err)
	require.False(t, intercepted)
	require.Equal(t, 2, *s.CurrentID)

	intercepted, err = s.Answer("Si")
	require.NoError(t, err)
	require.True(t, intercepted)

	// address confirmed outside the session, pending answer applied
	require.NoError(t, s.ApplyPending())
	require.Equal(t, 3, *s.CurrentID)

	_, err = s.Answer("todo bien")
	require.NoError(t, err)
	require.Equal(t, PhaseCapturingOutcome, s.Phase)
	require.Equal(t, []domain.Respuesta{
		{PreguntaID: 1, Valor: "No"},
		{PreguntaID: 2, Valor: "Si"},
		{PreguntaID: 3, Valor: "todo bien"},
	}, s.Respuestas)
}
