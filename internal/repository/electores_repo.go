package repository

import (
	"context"

	"campana-api/internal/domain"
)

// ElectorFilters narrows elector listings. AsignadoA is how volunteer role
// filtering reaches the query: handlers set it to the volunteer's perfil id.
type ElectorFilters struct {
	Estado    string
	AsignadoA string
	Search    string // persona nombre / cedula
}

type ElectoresRepository interface {
	GetElector(ctx context.Context, id int) (*domain.ElectorConPersona, error)
	ListElectores(ctx context.Context, filters ElectorFilters, page, size int) ([]*domain.ElectorConPersona, int, error)
	CreateElector(ctx context.Context, e *domain.Elector) (int, error)
	UpdateElector(ctx context.Context, id int, e *domain.Elector) error
	DeleteElector(ctx context.Context, id int) error

	UpdateElectorEstado(ctx context.Context, id int, estado domain.ElectorEstado) error
	// SetEnviarLista flags the elector for list delivery. Overwrite
	// semantics: setting an already-set flag is a no-op.
	SetEnviarLista(ctx context.Context, id int) error
	// GetEnviarLista re-reads the delivery flag; the outcome
	// reconciliation must not trust in-memory session state for it.
	GetEnviarLista(ctx context.Context, id int) (bool, error)

	// ListParaEnviar lists electores awaiting their envelope, and
	// MarkSobreEnviado flips Para_Enviar to Sobre_Enviado.
	ListParaEnviar(ctx context.Context) ([]*domain.ElectorConPersona, error)
	MarkSobreEnviado(ctx context.Context, id int) error
}
