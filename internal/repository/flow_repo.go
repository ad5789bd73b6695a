package repository

import (
	"context"

	"campana-api/internal/domain"
)

// FlowRepository is the flow configuration store. The engine only ever
// reads it; writes come from the flow-config admin service.
type FlowRepository interface {
	// GetActivePreguntas returns activa=true questions ordered by
	// orden_default (nulls last) then id, the order the engine walks
	// when no rule matches.
	GetActivePreguntas(ctx context.Context) ([]domain.Pregunta, error)
	// GetAllReglas returns every routing rule; the engine filters by
	// origin itself.
	GetAllReglas(ctx context.Context) ([]domain.Regla, error)

	GetPregunta(ctx context.Context, id int) (*domain.Pregunta, error)
	// ListPreguntasConReglas is the admin view: all questions (active or
	// not) with their outgoing rules, in default order.
	ListPreguntasConReglas(ctx context.Context) ([]*domain.PreguntaConReglas, error)
	CreatePregunta(ctx context.Context, p *domain.Pregunta) (int, error)
	UpdatePregunta(ctx context.Context, id int, p *domain.Pregunta) error
	SetPreguntaActiva(ctx context.Context, id int, activa bool) error
	DeletePregunta(ctx context.Context, id int) error

	GetReglasByOrigen(ctx context.Context, origenID int) ([]domain.Regla, error)
	CreateRegla(ctx context.Context, r *domain.Regla) (int, error)
	DeleteRegla(ctx context.Context, id int) error
}
