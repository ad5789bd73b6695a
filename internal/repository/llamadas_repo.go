package repository

import (
	"context"

	"campana-api/internal/domain"
)

type LlamadaFilters struct {
	VoluntarioID string
	ElectorID    int
}

type LlamadasRepository interface {
	// CreateLlamada inserts the call record and its answers in one
	// transaction and returns the new llamada id. Exactly-once: there is
	// no update path for llamadas.
	CreateLlamada(ctx context.Context, l *domain.Llamada, respuestas []domain.Respuesta) (int, error)
	ListLlamadas(ctx context.Context, filters LlamadaFilters, page, size int) ([]*domain.LlamadaConDetalles, int, error)
	GetRespuestas(ctx context.Context, llamadaID int) ([]domain.Respuesta, error)
}
