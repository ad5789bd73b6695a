package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"campana-api/internal/domain"
	"campana-api/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidPregunta = errors.New("pregunta invalida")
	ErrInvalidRegla    = errors.New("regla invalida")
	// ErrDuplicateRegla a rule with the same origin and trigger value
	// already exists. Resolution order between duplicates is undefined
	// configuration, so duplicates are rejected at write time.
	ErrDuplicateRegla = errors.New("ya existe una regla para ese origen y valor")
)

// FlowConfigService is the admin write side of the flow configuration
// store. Write-time validation keeps the question graph in the shape the
// engine assumes: options only on select questions, no dangling rule
// destinations, no ambiguous duplicate rules.
type FlowConfigService interface {
	ListPreguntasConReglas(ctx context.Context) ([]*domain.PreguntaConReglas, error)
	CreatePregunta(ctx context.Context, input PreguntaInput) (int, error)
	UpdatePregunta(ctx context.Context, id int, input PreguntaInput) error
	SetPreguntaActiva(ctx context.Context, id int, activa bool) error
	DeletePregunta(ctx context.Context, id int) error

	CreateRegla(ctx context.Context, input ReglaInput) (int, error)
	DeleteRegla(ctx context.Context, id int) error
}

type PreguntaInput struct {
	Texto        string              `json:"texto"`
	Tipo         domain.PreguntaTipo `json:"tipo"`
	OrdenDefault *int                `json:"orden_default"`
	Activa       bool                `json:"activa"`
	Opciones     []string            `json:"opciones"`
	Accion       string              `json:"accion"`
	ResultadoSi  *domain.Resultado   `json:"resultado_si"`
	ResultadoNo  *domain.Resultado   `json:"resultado_no"`
}

type ReglaInput struct {
	OrigenID  int     `json:"pregunta_origen_id"`
	Valor     *string `json:"respuesta_valor"`     // nil = wildcard
	DestinoID *int    `json:"pregunta_destino_id"` // nil = terminate
}

type flowConfigService struct {
	repo   repository.FlowRepository
	logger *zap.Logger
}

func NewFlowConfigService(repo repository.FlowRepository, logger *zap.Logger) FlowConfigService {
	return &flowConfigService{repo: repo, logger: logger}
}

func (s *flowConfigService) ListPreguntasConReglas(ctx context.Context) ([]*domain.PreguntaConReglas, error) {
	return s.repo.ListPreguntasConReglas(ctx)
}

func (s *flowConfigService) validatePregunta(input *PreguntaInput) error {
	input.Texto = strings.TrimSpace(input.Texto)
	if input.Texto == "" {
		return fmt.Errorf("%w: texto vacio", ErrInvalidPregunta)
	}
	if !domain.ValidPreguntaTipo(string(input.Tipo)) {
		return fmt.Errorf("%w: tipo desconocido %q", ErrInvalidPregunta, input.Tipo)
	}
	if input.Accion != "" && input.Accion != domain.AccionEnviarLista {
		return fmt.Errorf("%w: accion desconocida %q", ErrInvalidPregunta, input.Accion)
	}

	// option list is non-empty iff the question is a select
	if input.Tipo == domain.PreguntaSelect {
		if len(input.Opciones) == 0 {
			return fmt.Errorf("%w: una pregunta select necesita opciones", ErrInvalidPregunta)
		}
		for _, op := range input.Opciones {
			if strings.TrimSpace(op) == "" {
				return fmt.Errorf("%w: opcion vacia", ErrInvalidPregunta)
			}
		}
	} else if len(input.Opciones) > 0 {
		return fmt.Errorf("%w: solo las preguntas select llevan opciones", ErrInvalidPregunta)
	}

	// terminal-outcome hints only make sense on boolean questions
	if input.Tipo != domain.PreguntaBoolean && (input.ResultadoSi != nil || input.ResultadoNo != nil) {
		return fmt.Errorf("%w: resultados sugeridos solo en preguntas boolean", ErrInvalidPregunta)
	}
	for _, hint := range []*domain.Resultado{input.ResultadoSi, input.ResultadoNo} {
		if hint != nil && !domain.ValidResultado(string(*hint)) {
			return fmt.Errorf("%w: resultado sugerido desconocido %q", ErrInvalidPregunta, *hint)
		}
	}
	return nil
}

func (s *flowConfigService) preguntaFromInput(input PreguntaInput) *domain.Pregunta {
	return &domain.Pregunta{
		Texto:        input.Texto,
		Tipo:         input.Tipo,
		OrdenDefault: input.OrdenDefault,
		Activa:       input.Activa,
		Opciones:     input.Opciones,
		Accion:       input.Accion,
		ResultadoSi:  input.ResultadoSi,
		ResultadoNo:  input.ResultadoNo,
	}
}

func (s *flowConfigService) CreatePregunta(ctx context.Context, input PreguntaInput) (int, error) {
	if err := s.validatePregunta(&input); err != nil {
		return 0, err
	}
	id, err := s.repo.CreatePregunta(ctx, s.preguntaFromInput(input))
	if err != nil {
		return 0, err
	}
	s.logger.Info("pregunta created", zap.Int("pregunta_id", id), zap.String("tipo", string(input.Tipo)))
	return id, nil
}

func (s *flowConfigService) UpdatePregunta(ctx context.Context, id int, input PreguntaInput) error {
	if err := s.validatePregunta(&input); err != nil {
		return err
	}
	return s.repo.UpdatePregunta(ctx, id, s.preguntaFromInput(input))
}

func (s *flowConfigService) SetPreguntaActiva(ctx context.Context, id int, activa bool) error {
	return s.repo.SetPreguntaActiva(ctx, id, activa)
}

func (s *flowConfigService) DeletePregunta(ctx context.Context, id int) error {
	return s.repo.DeletePregunta(ctx, id)
}

func (s *flowConfigService) CreateRegla(ctx context.Context, input ReglaInput) (int, error) {
	if _, err := s.repo.GetPregunta(ctx, input.OrigenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: pregunta origen %d no existe", ErrInvalidRegla, input.OrigenID)
		}
		return 0, err
	}
	// a dangling destination would make the flow silently unrenderable;
	// reject it here instead of guessing at run time
	if input.DestinoID != nil {
		if *input.DestinoID == input.OrigenID {
			return 0, fmt.Errorf("%w: una regla no puede apuntar a su propio origen", ErrInvalidRegla)
		}
		if _, err := s.repo.GetPregunta(ctx, *input.DestinoID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return 0, fmt.Errorf("%w: pregunta destino %d no existe", ErrInvalidRegla, *input.DestinoID)
			}
			return 0, err
		}
	}

	existing, err := s.repo.GetReglasByOrigen(ctx, input.OrigenID)
	if err != nil {
		return 0, err
	}
	for _, r := range existing {
		if sameTrigger(r.Valor, input.Valor) {
			return 0, ErrDuplicateRegla
		}
	}

	id, err := s.repo.CreateRegla(ctx, &domain.Regla{
		OrigenID:  input.OrigenID,
		Valor:     input.Valor,
		DestinoID: input.DestinoID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrDuplicateRegla
		}
		return 0, err
	}
	s.logger.Info("regla created", zap.Int("regla_id", id), zap.Int("origen_id", input.OrigenID))
	return id, nil
}

func (s *flowConfigService) DeleteRegla(ctx context.Context, id int) error {
	return s.repo.DeleteRegla(ctx, id)
}

// sameTrigger compares trigger values treating nil as the wildcard, which
// is distinct from the empty string.
func sameTrigger(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
