package repository

import (
	"context"
	"errors"

	"campana-api/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// --- Personas ---

type PersonaFilters struct {
	Search string // matches nombre, cedula, nro_socio
}

type PersonasRepository interface {
	GetPersona(ctx context.Context, id int) (*domain.Persona, error)
	GetPersonaByCedula(ctx context.Context, cedula string) (*domain.Persona, error)
	ListPersonas(ctx context.Context, filters PersonaFilters, page, size int) ([]*domain.Persona, int, error)
	CreatePersona(ctx context.Context, p *domain.Persona) (int, error)
	UpdatePersona(ctx context.Context, id int, p *domain.Persona) error
	// UpdateDireccion overwrites only the mailing address. Used by the
	// enviar-lista confirmation; repeated calls just overwrite.
	UpdateDireccion(ctx context.Context, id int, direccion string) error
	DeletePersona(ctx context.Context, id int) error
}

// --- Perfiles ---

type PerfilesRepository interface {
	GetPerfil(ctx context.Context, id string) (*domain.Perfil, error)
	ListPerfiles(ctx context.Context) ([]*domain.Perfil, error)
	UpdatePerfilRol(ctx context.Context, id string, rol domain.UserRol) error
}

// --- Rol de lista / comisiones ---

type ListaRepository interface {
	ListRolesLista(ctx context.Context, tipo string) ([]*domain.RolLista, error)
	CreateRolLista(ctx context.Context, r *domain.RolLista) (int, error)
	UpdateRolLista(ctx context.Context, id int, r *domain.RolLista) error
	DeleteRolLista(ctx context.Context, id int) error

	ListComisionIntereses(ctx context.Context, comision string) ([]*domain.ComisionInteres, error)
	CreateComisionInteres(ctx context.Context, c *domain.ComisionInteres) (int, error)
	DeleteComisionInteres(ctx context.Context, id int) error
}

// --- Gastos ---

type GastosRepository interface {
	ListGastos(ctx context.Context, rubro string) ([]*domain.Gasto, error)
	CreateGasto(ctx context.Context, g *domain.Gasto) (int, error)
	UpdateGasto(ctx context.Context, id int, g *domain.Gasto) error
	DeleteGasto(ctx context.Context, id int) error
	// TotalsByRubro sums montos per rubro for the dashboard summary.
	TotalsByRubro(ctx context.Context) (map[domain.GastoRubro]float64, error)
}

// --- Eventos ---

type EventosRepository interface {
	ListEventos(ctx context.Context) ([]*domain.Evento, error)
	CreateEvento(ctx context.Context, e *domain.Evento) (int, error)
	UpdateEvento(ctx context.Context, id int, e *domain.Evento) error
	DeleteEvento(ctx context.Context, id int) error
}

// --- Campanas de email ---

type CampanasRepository interface {
	GetCampana(ctx context.Context, id int) (*domain.CampanaEmail, error)
	ListCampanas(ctx context.Context) ([]*domain.CampanaEmail, error)
	CreateCampana(ctx context.Context, c *domain.CampanaEmail) (int, error)
	UpdateCampana(ctx context.Context, id int, c *domain.CampanaEmail) error
	DeleteCampana(ctx context.Context, id int) error
	SetCampanaEstado(ctx context.Context, id int, estado domain.CampanaEstado, enviados int) error
	// SegmentEmails resolves a segment to the recipient email addresses
	// (personas without an email are skipped).
	SegmentEmails(ctx context.Context, segmento string) ([]string, error)
}
