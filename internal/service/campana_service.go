package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"campana-api/internal/domain"
	"campana-api/internal/repository"
)

var (
	ErrInvalidCampana  = errors.New("campania invalida")
	ErrCampanaNotDraft = errors.New("la campania no esta en borrador")
)

// CampanaService manages email campaigns and their delivery.
type CampanaService interface {
	GetCampana(ctx context.Context, id int) (*domain.CampanaEmail, error)
	ListCampanas(ctx context.Context) ([]*domain.CampanaEmail, error)
	CreateCampana(ctx context.Context, in CampanaInput) (int, error)
	UpdateCampana(ctx context.Context, id int, in CampanaInput) error
	DeleteCampana(ctx context.Context, id int) error
	// EnviarCampana delivers a draft campaign to its segment and marks it Enviada.
	EnviarCampana(ctx context.Context, id int) (int, error)
}

type CampanaInput struct {
	Asunto       string `json:"asunto"`
	TemplateHTML string `json:"template_html"`
	Nombre       string `json:"nombre"`
	Segmento     string `json:"segmento"`
}

type campanaService struct {
	campanas repository.CampanasRepository
	mailer   Mailer
	logger   *zap.Logger
}

func NewCampanaService(campanas repository.CampanasRepository, mailer Mailer, logger *zap.Logger) CampanaService {
	return &campanaService{campanas: campanas, mailer: mailer, logger: logger}
}

var _ CampanaService = (*campanaService)(nil)

func validSegmento(s string) bool {
	switch s {
	case "", domain.SegmentoTodos, domain.SegmentoAceptaron, domain.SegmentoPendientes, domain.SegmentoLista:
		return true
	}
	return false
}

func (s *campanaService) validate(in CampanaInput) error {
	if in.Asunto == "" {
		return fmt.Errorf("%w: asunto requerido", ErrInvalidCampana)
	}
	if in.TemplateHTML == "" {
		return fmt.Errorf("%w: template_html requerido", ErrInvalidCampana)
	}
	if !validSegmento(in.Segmento) {
		return fmt.Errorf("%w: segmento %q desconocido", ErrInvalidCampana, in.Segmento)
	}
	return nil
}

func (s *campanaService) GetCampana(ctx context.Context, id int) (*domain.CampanaEmail, error) {
	return s.campanas.GetCampana(ctx, id)
}

func (s *campanaService) ListCampanas(ctx context.Context) ([]*domain.CampanaEmail, error) {
	return s.campanas.ListCampanas(ctx)
}

func (s *campanaService) CreateCampana(ctx context.Context, in CampanaInput) (int, error) {
	if err := s.validate(in); err != nil {
		return 0, err
	}
	c := &domain.CampanaEmail{
		Asunto:       in.Asunto,
		TemplateHTML: in.TemplateHTML,
		Estado:       domain.CampanaBorrador,
		Nombre:       in.Nombre,
		Segmento:     in.Segmento,
	}
	return s.campanas.CreateCampana(ctx, c)
}

func (s *campanaService) UpdateCampana(ctx context.Context, id int, in CampanaInput) error {
	if err := s.validate(in); err != nil {
		return err
	}
	existing, err := s.campanas.GetCampana(ctx, id)
	if err != nil {
		return err
	}
	if existing.Estado != domain.CampanaBorrador {
		return ErrCampanaNotDraft
	}
	existing.Asunto = in.Asunto
	existing.TemplateHTML = in.TemplateHTML
	existing.Nombre = in.Nombre
	existing.Segmento = in.Segmento
	return s.campanas.UpdateCampana(ctx, id, existing)
}

func (s *campanaService) DeleteCampana(ctx context.Context, id int) error {
	return s.campanas.DeleteCampana(ctx, id)
}

// EnviarCampana resolves the segment, delivers to each recipient, and
// records the final count. Per-recipient failures are logged and skipped so
// one bounce does not abort the whole batch.
func (s *campanaService) EnviarCampana(ctx context.Context, id int) (int, error) {
	c, err := s.campanas.GetCampana(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Estado != domain.CampanaBorrador {
		return 0, ErrCampanaNotDraft
	}

	segmento := c.Segmento
	if segmento == "" {
		segmento = domain.SegmentoTodos
	}
	emails, err := s.campanas.SegmentEmails(ctx, segmento)
	if err != nil {
		return 0, err
	}

	if err := s.campanas.SetCampanaEstado(ctx, id, domain.CampanaEnviando, 0); err != nil {
		return 0, err
	}

	enviados := 0
	for _, to := range emails {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := s.mailer.Send(to, c.Asunto, c.TemplateHTML); err != nil {
			s.logger.Warn("envio fallido",
				zap.Int("campana_id", id),
				zap.String("to", to),
				zap.Error(err))
			continue
		}
		enviados++
	}

	if err := s.campanas.SetCampanaEstado(ctx, id, domain.CampanaEnviada, enviados); err != nil {
		return enviados, err
	}
	s.logger.Info("campania enviada",
		zap.Int("campana_id", id),
		zap.String("segmento", segmento),
		zap.Int("destinatarios", len(emails)),
		zap.Int("enviados", enviados))
	return enviados, nil
}
