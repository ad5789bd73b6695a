package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campana-api/internal/domain"
	"campana-api/internal/flow"
	"campana-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoPermission the caller may not act on this elector or session.
	ErrNoPermission = errors.New("sin permiso")
	// ErrElectorNotFound target elector does not exist.
	ErrElectorNotFound = errors.New("elector no encontrado")
)

// LlamadaService drives call sessions and persists finalized calls. The
// session state machine itself lives in the flow package; this service
// owns the external side effects around it (enviar-lista confirmation,
// call submission, elector estado reconciliation).
type LlamadaService interface {
	// Session lifecycle
	StartSession(ctx context.Context, perfil *domain.Perfil, electorID int) (*flow.Session, error)
	GetSession(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error)
	DiscardSession(ctx context.Context, perfil *domain.Perfil, sessionID string) error

	// Session transitions
	Answer(ctx context.Context, perfil *domain.Perfil, sessionID, valor string) (*flow.Session, bool, error)
	ConfirmEnviarLista(ctx context.Context, perfil *domain.Perfil, sessionID string, direccion string, skip bool) (*flow.Session, error)
	Back(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error)
	SkipToOutcome(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error)
	SelectResultado(ctx context.Context, perfil *domain.Perfil, sessionID string, resultado domain.Resultado) (*flow.Session, error)
	Finalize(ctx context.Context, perfil *domain.Perfil, sessionID string) (int, error)

	// Direct submission without a session, also used by Finalize.
	SubmitLlamada(ctx context.Context, perfil *domain.Perfil, input SubmitLlamadaInput) (int, error)

	ListLlamadas(ctx context.Context, perfil *domain.Perfil, page, size int) ([]*domain.LlamadaConDetalles, int, error)
	GetElectoresParaLlamar(ctx context.Context, perfil *domain.Perfil, page, size int) ([]*domain.ElectorConPersona, int, error)
}

// SubmitLlamadaInput one finalized call.
type SubmitLlamadaInput struct {
	ElectorID  int                `json:"elector_id"`
	Resultado  domain.Resultado   `json:"resultado"`
	Respuestas []domain.Respuesta `json:"respuestas"`
}

type llamadaService struct {
	electores repository.ElectoresRepository
	personas  repository.PersonasRepository
	llamadas  repository.LlamadasRepository
	flowRepo  repository.FlowRepository
	sessions  flow.SessionStore
	logger    *zap.Logger
}

func NewLlamadaService(
	electores repository.ElectoresRepository,
	personas repository.PersonasRepository,
	llamadas repository.LlamadasRepository,
	flowRepo repository.FlowRepository,
	sessions flow.SessionStore,
	logger *zap.Logger,
) LlamadaService {
	return &llamadaService{
		electores: electores,
		personas:  personas,
		llamadas:  llamadas,
		flowRepo:  flowRepo,
		sessions:  sessions,
		logger:    logger,
	}
}

// checkElectorAccess enforces the assignment rule: a Voluntario may only
// act on electores assigned to them. Admins see everything.
func (s *llamadaService) checkElectorAccess(perfil *domain.Perfil, e *domain.ElectorConPersona) error {
	if perfil.IsAdmin() {
		return nil
	}
	if e.AsignadoA != perfil.ID {
		return ErrNoPermission
	}
	return nil
}

func (s *llamadaService) StartSession(ctx context.Context, perfil *domain.Perfil, electorID int) (*flow.Session, error) {
	elector, err := s.electores.GetElector(ctx, electorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrElectorNotFound
		}
		return nil, err
	}
	if err := s.checkElectorAccess(perfil, elector); err != nil {
		return nil, err
	}

	preguntas, err := s.flowRepo.GetActivePreguntas(ctx)
	if err != nil {
		return nil, err
	}
	reglas, err := s.flowRepo.GetAllReglas(ctx)
	if err != nil {
		return nil, err
	}

	sess := flow.NewSession(uuid.NewString(), elector.ID, elector.PersonaID, perfil.ID, preguntas, reglas)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("call session started",
		zap.String("session_id", sess.ID),
		zap.Int("elector_id", elector.ID),
		zap.String("voluntario_id", perfil.ID),
		zap.Int("preguntas", len(preguntas)),
	)
	return sess, nil
}

// loadOwnedSession fetches the session and verifies ownership: a session
// belongs to the perfil that opened it, Admin or not.
func (s *llamadaService) loadOwnedSession(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.VoluntarioID != perfil.ID {
		return nil, ErrNoPermission
	}
	return sess, nil
}

func (s *llamadaService) GetSession(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error) {
	return s.loadOwnedSession(ctx, perfil, sessionID)
}

func (s *llamadaService) DiscardSession(ctx context.Context, perfil *domain.Perfil, sessionID string) error {
	if _, err := s.loadOwnedSession(ctx, perfil, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

func (s *llamadaService) Answer(ctx context.Context, perfil *domain.Perfil, sessionID, valor string) (*flow.Session, bool, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return nil, false, err
	}
	intercepted, err := sess.Answer(valor)
	if err != nil {
		return nil, false, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, false, err
	}
	return sess, intercepted, nil
}

// ConfirmEnviarLista resolves a pending enviar-lista interception. Unless
// skipped, the elector is flagged for delivery and the persona's direccion
// is overwritten (idempotent: a repeat just overwrites again). Either way
// the parked answer is then applied through the normal transition.
func (s *llamadaService) ConfirmEnviarLista(ctx context.Context, perfil *domain.Perfil, sessionID string, direccion string, skip bool) (*flow.Session, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Pending == nil {
		return nil, flow.ErrNoPending
	}

	if !skip {
		if err := s.confirmEnviarLista(ctx, sess.ElectorID, sess.PersonaID, direccion); err != nil {
			return nil, err
		}
	}

	if err := sess.ApplyPending(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// confirmEnviarLista flags the elector for the send list and, when a
// direccion was provided, overwrites the mailing address. An empty
// direccion confirms the flag and leaves the stored address untouched.
// Committed independently of the call; navigating away afterwards does
// not unwind it.
func (s *llamadaService) confirmEnviarLista(ctx context.Context, electorID, personaID int, direccion string) error {
	if err := s.electores.SetEnviarLista(ctx, electorID); err != nil {
		return fmt.Errorf("failed to flag elector for delivery: %w", err)
	}
	if direccion != "" {
		if err := s.personas.UpdateDireccion(ctx, personaID, direccion); err != nil {
			return fmt.Errorf("failed to store direccion: %w", err)
		}
	}
	s.logger.Info("direccion confirmed for lista delivery",
		zap.Int("elector_id", electorID),
		zap.Int("persona_id", personaID),
	)
	return nil
}

func (s *llamadaService) Back(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Back()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *llamadaService) SkipToOutcome(ctx context.Context, perfil *domain.Perfil, sessionID string) (*flow.Session, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SkipToOutcome(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *llamadaService) SelectResultado(ctx context.Context, perfil *domain.Perfil, sessionID string, resultado domain.Resultado) (*flow.Session, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SelectResultado(resultado); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Finalize submits the session's call record. On success the session is
// discarded; on failure the phase reverts and the session is kept intact
// for an explicit retry.
func (s *llamadaService) Finalize(ctx context.Context, perfil *domain.Perfil, sessionID string) (int, error) {
	sess, err := s.loadOwnedSession(ctx, perfil, sessionID)
	if err != nil {
		return 0, err
	}
	if err := sess.BeginSubmit(); err != nil {
		return 0, err
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return 0, err
	}

	llamadaID, err := s.SubmitLlamada(ctx, perfil, SubmitLlamadaInput{
		ElectorID:  sess.ElectorID,
		Resultado:  *sess.Resultado,
		Respuestas: sess.Respuestas,
	})
	if err != nil {
		sess.FailSubmit()
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			s.logger.Warn("failed to persist reverted session", zap.String("session_id", sessionID), zap.Error(saveErr))
		}
		return 0, err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to delete finalized session", zap.String("session_id", sessionID), zap.Error(err))
	}
	return llamadaID, nil
}

func (s *llamadaService) SubmitLlamada(ctx context.Context, perfil *domain.Perfil, input SubmitLlamadaInput) (int, error) {
	if !domain.ValidResultado(string(input.Resultado)) {
		return 0, flow.ErrBadOutcome
	}

	elector, err := s.electores.GetElector(ctx, input.ElectorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrElectorNotFound
		}
		return 0, err
	}
	if err := s.checkElectorAccess(perfil, elector); err != nil {
		return 0, err
	}

	llamadaID, err := s.llamadas.CreateLlamada(ctx, &domain.Llamada{
		ElectorID:    input.ElectorID,
		VoluntarioID: perfil.ID,
		Resultado:    input.Resultado,
		Fecha:        time.Now().UTC().Truncate(24 * time.Hour),
	}, input.Respuestas)
	if err != nil {
		return 0, err
	}

	// Outcome reconciliation. Nos_Vota maps to Para_Enviar iff the elector
	// is flagged for lista delivery; the flag is re-read here because it
	// may come from a previous call attempt, not this session.
	estado := domain.ResultadoToEstado[input.Resultado]
	if input.Resultado == domain.ResultadoNosVota {
		flagged, err := s.electores.GetEnviarLista(ctx, input.ElectorID)
		if err != nil {
			return 0, err
		}
		if flagged {
			estado = domain.EstadoParaEnviar
		}
	}
	if err := s.electores.UpdateElectorEstado(ctx, input.ElectorID, estado); err != nil {
		return 0, err
	}

	s.logger.Info("llamada registered",
		zap.Int("llamada_id", llamadaID),
		zap.Int("elector_id", input.ElectorID),
		zap.String("resultado", string(input.Resultado)),
		zap.String("nuevo_estado", string(estado)),
	)
	return llamadaID, nil
}

func (s *llamadaService) ListLlamadas(ctx context.Context, perfil *domain.Perfil, page, size int) ([]*domain.LlamadaConDetalles, int, error) {
	filters := repository.LlamadaFilters{}
	if !perfil.IsAdmin() {
		filters.VoluntarioID = perfil.ID
	}
	return s.llamadas.ListLlamadas(ctx, filters, page, size)
}

func (s *llamadaService) GetElectoresParaLlamar(ctx context.Context, perfil *domain.Perfil, page, size int) ([]*domain.ElectorConPersona, int, error) {
	filters := repository.ElectorFilters{}
	if !perfil.IsAdmin() {
		filters.AsignadoA = perfil.ID
	}
	return s.electores.ListElectores(ctx, filters, page, size)
}
