package flow

import (
	"errors"
	"time"

	"campana-api/internal/domain"
)

// Phase of a call session.
type Phase string

const (
	// PhaseCalling a question is being presented and awaiting an answer.
	PhaseCalling Phase = "calling"
	// PhaseCapturingOutcome questions exhausted or skipped; the volunteer
	// picks the final resultado.
	PhaseCapturingOutcome Phase = "resultado"
	// PhaseSubmitting finalization is in flight. Guards resubmission.
	PhaseSubmitting Phase = "submitting"
)

var (
	ErrNotCalling   = errors.New("flow: session is not in the calling phase")
	ErrNotCapturing = errors.New("flow: session is not capturing the resultado")
	ErrNoQuestion   = errors.New("flow: no current question")
	ErrPending      = errors.New("flow: an enviar-lista confirmation is pending")
	ErrNoPending    = errors.New("flow: no pending answer to apply")
	ErrNoOutcome    = errors.New("flow: no resultado selected")
	ErrBadOutcome   = errors.New("flow: unknown resultado")
)

// PendingAnswer holds the answer whose application is suspended while the
// enviar-lista address confirmation is open.
type PendingAnswer struct {
	PreguntaID int    `json:"pregunta_id"`
	Valor      string `json:"valor"`
}

// Session is one in-progress call: a snapshot of the active question graph
// plus the cursor, answer accumulator and navigation history. It is owned
// by a single request context at a time and carries no side effects of its
// own; the llamada service performs the external calls.
//
// Respuestas holds at most one entry per pregunta: re-answering a question
// reached again through a routing rule overwrites the earlier valor.
// History is the visit stack and may repeat ids.
type Session struct {
	ID           string             `json:"id"`
	ElectorID    int                `json:"elector_id"`
	PersonaID    int                `json:"persona_id"`
	VoluntarioID string             `json:"voluntario_id"`
	Preguntas    []domain.Pregunta  `json:"preguntas"`
	Reglas       []domain.Regla     `json:"reglas"`
	Phase        Phase              `json:"phase"`
	CurrentID    *int               `json:"current_id"`
	Respuestas   []domain.Respuesta `json:"respuestas"`
	History      []int              `json:"history"`
	Pending      *PendingAnswer     `json:"pending,omitempty"`
	Resultado    *domain.Resultado  `json:"resultado,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// NewSession opens a session for an elector over a snapshot of the active
// questions (rank order) and the full rule set. An empty question list
// starts directly in the resultado phase.
func NewSession(id string, electorID, personaID int, voluntarioID string, preguntas []domain.Pregunta, reglas []domain.Regla) *Session {
	s := &Session{
		ID:           id,
		ElectorID:    electorID,
		PersonaID:    personaID,
		VoluntarioID: voluntarioID,
		Preguntas:    preguntas,
		Reglas:       reglas,
		Phase:        PhaseCalling,
		CreatedAt:    time.Now().UTC(),
	}
	if len(preguntas) == 0 {
		s.Phase = PhaseCapturingOutcome
		return s
	}
	first := preguntas[0].ID
	s.CurrentID = &first
	return s
}

// Current returns the question under the cursor, nil when there is none.
func (s *Session) Current() *domain.Pregunta {
	if s.CurrentID == nil {
		return nil
	}
	return s.pregunta(*s.CurrentID)
}

func (s *Session) pregunta(id int) *domain.Pregunta {
	for i := range s.Preguntas {
		if s.Preguntas[i].ID == id {
			return &s.Preguntas[i]
		}
	}
	return nil
}

// Answer submits valor for the current question. When the question carries
// the enviar_lista action and the answer is affirmative, the answer is not
// applied: it is parked as Pending and intercepted=true is returned so the
// caller can run the address confirmation first (ApplyPending applies it
// afterwards). Any other answer advances immediately.
func (s *Session) Answer(valor string) (intercepted bool, err error) {
	if s.Phase != PhaseCalling {
		return false, ErrNotCalling
	}
	if s.Pending != nil {
		return false, ErrPending
	}
	cur := s.Current()
	if cur == nil {
		return false, ErrNoQuestion
	}

	if cur.Accion == domain.AccionEnviarLista && valor == domain.RespuestaSi {
		s.Pending = &PendingAnswer{PreguntaID: cur.ID, Valor: valor}
		return true, nil
	}

	s.apply(cur, valor)
	return false, nil
}

// ApplyPending applies the parked enviar-lista answer via the normal
// transition. It is called both after the address was confirmed and when
// the volunteer skipped the confirmation; the side effect (if any) has
// already happened outside the session.
func (s *Session) ApplyPending() error {
	if s.Pending == nil {
		return ErrNoPending
	}
	p := s.pregunta(s.Pending.PreguntaID)
	if p == nil {
		s.Pending = nil
		return ErrNoQuestion
	}
	valor := s.Pending.Valor
	s.Pending = nil
	s.apply(p, valor)
	return nil
}

// apply records the answer, pushes history and moves the cursor to the
// resolved next question. Re-answering a question already in the
// accumulator overwrites its valor in place. A rule destination that is
// not in the active snapshot terminates the flow (configuration writes
// reject dangling destinations; this covers rules older than the
// snapshot).
func (s *Session) apply(p *domain.Pregunta, valor string) {
	recorded := false
	for i := range s.Respuestas {
		if s.Respuestas[i].PreguntaID == p.ID {
			s.Respuestas[i].Valor = valor
			recorded = true
			break
		}
	}
	if !recorded {
		s.Respuestas = append(s.Respuestas, domain.Respuesta{PreguntaID: p.ID, Valor: valor})
	}
	s.History = append(s.History, p.ID)

	next := Advance(p.ID, valor, s.Preguntas, s.Reglas)
	if next == nil || s.pregunta(*next) == nil {
		s.CurrentID = nil
		s.Phase = PhaseCapturingOutcome
		s.hintResultado(p, valor)
		return
	}
	id := *next
	s.CurrentID = &id
}

// hintResultado prefills the resultado from a boolean question's terminal
// hint. Only a suggestion: SelectResultado overwrites it freely.
func (s *Session) hintResultado(p *domain.Pregunta, valor string) {
	if p.Tipo != domain.PreguntaBoolean || s.Resultado != nil {
		return
	}
	var hint *domain.Resultado
	switch valor {
	case domain.RespuestaSi:
		hint = p.ResultadoSi
	case domain.RespuestaNo:
		hint = p.ResultadoNo
	}
	if hint != nil {
		r := *hint
		s.Resultado = &r
	}
}

// Back pops the most recent history entry, restores it as the current
// question and removes its accumulated answer so it must be re-entered.
// No-op on empty history. From the resultado phase it re-enters calling.
func (s *Session) Back() {
	if s.Phase == PhaseSubmitting {
		return
	}
	s.Pending = nil
	if len(s.History) == 0 {
		return
	}
	prev := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	for i := len(s.Respuestas) - 1; i >= 0; i-- {
		if s.Respuestas[i].PreguntaID == prev {
			s.Respuestas = append(s.Respuestas[:i], s.Respuestas[i+1:]...)
			break
		}
	}
	s.CurrentID = &prev
	s.Phase = PhaseCalling
}

// SkipToOutcome abandons the remaining questions without recording an
// answer for the current one.
func (s *Session) SkipToOutcome() error {
	if s.Phase != PhaseCalling {
		return ErrNotCalling
	}
	s.Pending = nil
	s.CurrentID = nil
	s.Phase = PhaseCapturingOutcome
	return nil
}

// SelectResultado sets or replaces the chosen outcome. The volunteer may
// change it any number of times before finalizing.
func (s *Session) SelectResultado(r domain.Resultado) error {
	if s.Phase != PhaseCapturingOutcome {
		return ErrNotCapturing
	}
	if !domain.ValidResultado(string(r)) {
		return ErrBadOutcome
	}
	res := r
	s.Resultado = &res
	return nil
}

// BeginSubmit moves the session into the submitting phase. Requires a
// chosen resultado; rejects a second finalize while one is in flight.
func (s *Session) BeginSubmit() error {
	if s.Phase == PhaseSubmitting {
		return ErrNotCapturing
	}
	if s.Phase != PhaseCapturingOutcome {
		return ErrNotCapturing
	}
	if s.Resultado == nil {
		return ErrNoOutcome
	}
	s.Phase = PhaseSubmitting
	return nil
}

// FailSubmit reverts a failed finalization so the volunteer can retry.
// Answers and the selected resultado are preserved.
func (s *Session) FailSubmit() {
	if s.Phase == PhaseSubmitting {
		s.Phase = PhaseCapturingOutcome
	}
}
