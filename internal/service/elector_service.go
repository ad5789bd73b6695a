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

var ErrInvalidElector = errors.New("elector invalido")

// ElectorService manages electores and their personas. Listing honors the
// volunteer assignment rule; writes beyond notas are Admin-only and the
// handlers gate that before calling in.
type ElectorService interface {
	GetElector(ctx context.Context, perfil *domain.Perfil, id int) (*domain.ElectorConPersona, error)
	ListElectores(ctx context.Context, perfil *domain.Perfil, req ListElectoresRequest) ([]*domain.ElectorConPersona, int, error)
	CreateElector(ctx context.Context, input CreateElectorInput) (int, error)
	UpdateElector(ctx context.Context, id int, input UpdateElectorInput) error
	DeleteElector(ctx context.Context, id int) error

	ListParaEnviar(ctx context.Context) ([]*domain.ElectorConPersona, error)
	MarkSobreEnviado(ctx context.Context, id int) error

	// ImportElectores creates personas + electores from parsed rows,
	// skipping rows whose cedula already exists. Returns created and
	// skipped counts.
	ImportElectores(ctx context.Context, rows []ImportRow) (created, skipped int, err error)
}

type ListElectoresRequest struct {
	Estado string
	Search string
	Page   int
	Size   int
}

// CreateElectorInput creates the persona and the elector in one step,
// mirroring the dashboard's elector form.
type CreateElectorInput struct {
	Persona   domain.Persona `json:"persona"`
	Notas     string         `json:"notas"`
	AsignadoA string         `json:"asignado_a"`
}

type UpdateElectorInput struct {
	Estado    domain.ElectorEstado `json:"estado"`
	Notas     string               `json:"notas"`
	AsignadoA string               `json:"asignado_a"`
	Persona   *domain.Persona      `json:"persona,omitempty"`
}

// ImportRow one spreadsheet row of the elector import.
type ImportRow struct {
	Cedula    string
	Nombre    string
	NroSocio  string
	Telefono  string
	Celular   string
	Email     string
	Direccion string
}

type electorService struct {
	electores repository.ElectoresRepository
	personas  repository.PersonasRepository
	logger    *zap.Logger
}

func NewElectorService(electores repository.ElectoresRepository, personas repository.PersonasRepository, logger *zap.Logger) ElectorService {
	return &electorService{electores: electores, personas: personas, logger: logger}
}

func (s *electorService) GetElector(ctx context.Context, perfil *domain.Perfil, id int) (*domain.ElectorConPersona, error) {
	e, err := s.electores.GetElector(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrElectorNotFound
		}
		return nil, err
	}
	if !perfil.IsAdmin() && e.AsignadoA != perfil.ID {
		return nil, ErrNoPermission
	}
	return e, nil
}

func (s *electorService) ListElectores(ctx context.Context, perfil *domain.Perfil, req ListElectoresRequest) ([]*domain.ElectorConPersona, int, error) {
	filters := repository.ElectorFilters{Estado: req.Estado, Search: req.Search}
	if !perfil.IsAdmin() {
		filters.AsignadoA = perfil.ID
	}
	return s.electores.ListElectores(ctx, filters, req.Page, req.Size)
}

func (s *electorService) CreateElector(ctx context.Context, input CreateElectorInput) (int, error) {
	input.Persona.Nombre = strings.TrimSpace(input.Persona.Nombre)
	if input.Persona.Nombre == "" {
		return 0, fmt.Errorf("%w: nombre vacio", ErrInvalidElector)
	}

	personaID, err := s.personas.CreatePersona(ctx, &input.Persona)
	if err != nil {
		return 0, err
	}
	id, err := s.electores.CreateElector(ctx, &domain.Elector{
		PersonaID: personaID,
		Estado:    domain.EstadoPendiente,
		Notas:     input.Notas,
		AsignadoA: input.AsignadoA,
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("elector created", zap.Int("elector_id", id), zap.Int("persona_id", personaID))
	return id, nil
}

func (s *electorService) UpdateElector(ctx context.Context, id int, input UpdateElectorInput) error {
	if !domain.ValidElectorEstado(string(input.Estado)) {
		return fmt.Errorf("%w: estado desconocido %q", ErrInvalidElector, input.Estado)
	}
	current, err := s.electores.GetElector(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrElectorNotFound
		}
		return err
	}

	if input.Persona != nil {
		input.Persona.Nombre = strings.TrimSpace(input.Persona.Nombre)
		if input.Persona.Nombre == "" {
			return fmt.Errorf("%w: nombre vacio", ErrInvalidElector)
		}
		if err := s.personas.UpdatePersona(ctx, current.PersonaID, input.Persona); err != nil {
			return err
		}
	}

	return s.electores.UpdateElector(ctx, id, &domain.Elector{
		Estado:    input.Estado,
		Notas:     input.Notas,
		AsignadoA: input.AsignadoA,
	})
}

func (s *electorService) DeleteElector(ctx context.Context, id int) error {
	err := s.electores.DeleteElector(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrElectorNotFound
	}
	return err
}

func (s *electorService) ListParaEnviar(ctx context.Context) ([]*domain.ElectorConPersona, error) {
	return s.electores.ListParaEnviar(ctx)
}

func (s *electorService) MarkSobreEnviado(ctx context.Context, id int) error {
	err := s.electores.MarkSobreEnviado(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrElectorNotFound
	}
	return err
}

func (s *electorService) ImportElectores(ctx context.Context, rows []ImportRow) (int, int, error) {
	created, skipped := 0, 0
	for i, row := range rows {
		nombre := strings.TrimSpace(row.Nombre)
		if nombre == "" {
			skipped++
			continue
		}
		cedula := strings.TrimSpace(row.Cedula)
		if cedula != "" {
			if _, err := s.personas.GetPersonaByCedula(ctx, cedula); err == nil {
				skipped++
				continue
			} else if !errors.Is(err, repository.ErrNotFound) {
				return created, skipped, fmt.Errorf("row %d: %w", i+1, err)
			}
		}

		personaID, err := s.personas.CreatePersona(ctx, &domain.Persona{
			Cedula:    cedula,
			Nombre:    nombre,
			NroSocio:  strings.TrimSpace(row.NroSocio),
			Telefono:  strings.TrimSpace(row.Telefono),
			Celular:   strings.TrimSpace(row.Celular),
			Email:     strings.TrimSpace(row.Email),
			Direccion: strings.TrimSpace(row.Direccion),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := s.electores.CreateElector(ctx, &domain.Elector{
			PersonaID: personaID,
			Estado:    domain.EstadoPendiente,
		}); err != nil {
			return created, skipped, fmt.Errorf("row %d: %w", i+1, err)
		}
		created++
	}
	s.logger.Info("electores imported", zap.Int("created", created), zap.Int("skipped", skipped))
	return created, skipped, nil
}
