package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campana-api/internal/domain"
)

type PostgresElectoresRepository struct {
	db *sql.DB
}

func NewPostgresElectoresRepository(db *sql.DB) *PostgresElectoresRepository {
	return &PostgresElectoresRepository{db: db}
}

var _ ElectoresRepository = (*PostgresElectoresRepository)(nil)

const electorJoinColumns = `
	e.id,
	e.persona_id,
	e.estado,
	COALESCE(e.notas, ''),
	COALESCE(e.asignado_a::text, ''),
	e.enviar_lista,
	e.created_at,
	e.updated_at,
	p.id,
	COALESCE(p.cedula, ''),
	p.nombre,
	COALESCE(p.nro_socio, ''),
	p.fecha_nacimiento,
	COALESCE(p.telefono, ''),
	COALESCE(p.celular, ''),
	COALESCE(p.email, ''),
	COALESCE(p.direccion, ''),
	p.created_at,
	p.updated_at`

func scanElectorConPersona(row interface{ Scan(...any) error }) (*domain.ElectorConPersona, error) {
	var e domain.ElectorConPersona
	var fechaNacimiento sql.NullTime
	err := row.Scan(
		&e.ID,
		&e.PersonaID,
		&e.Estado,
		&e.Notas,
		&e.AsignadoA,
		&e.EnviarLista,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.Persona.ID,
		&e.Persona.Cedula,
		&e.Persona.Nombre,
		&e.Persona.NroSocio,
		&fechaNacimiento,
		&e.Persona.Telefono,
		&e.Persona.Celular,
		&e.Persona.Email,
		&e.Persona.Direccion,
		&e.Persona.CreatedAt,
		&e.Persona.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fechaNacimiento.Valid {
		e.Persona.FechaNacimiento = &fechaNacimiento.Time
	}
	return &e, nil
}

func (r *PostgresElectoresRepository) GetElector(ctx context.Context, id int) (*domain.ElectorConPersona, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+electorJoinColumns+`
		 FROM electores e JOIN personas p ON p.id = e.persona_id
		 WHERE e.id = $1`, id)
	e, err := scanElectorConPersona(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get elector: %w", err)
	}
	return e, nil
}

func (r *PostgresElectoresRepository) ListElectores(ctx context.Context, filters ElectorFilters, page, size int) ([]*domain.ElectorConPersona, int, error) {
	conds := []string{"TRUE"}
	args := []any{}
	if filters.Estado != "" {
		args = append(args, filters.Estado)
		conds = append(conds, fmt.Sprintf("e.estado = $%d", len(args)))
	}
	if filters.AsignadoA != "" {
		args = append(args, filters.AsignadoA)
		conds = append(conds, fmt.Sprintf("e.asignado_a::text = $%d", len(args)))
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(p.nombre ILIKE $%d OR p.cedula ILIKE $%d)", len(args), len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM electores e JOIN personas p ON p.id = e.persona_id WHERE `+where,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count electores: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(
		`SELECT %s FROM electores e JOIN personas p ON p.id = e.persona_id
		 WHERE %s ORDER BY e.created_at DESC, e.id DESC LIMIT $%d OFFSET $%d`,
		electorJoinColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list electores: %w", err)
	}
	defer rows.Close()

	var items []*domain.ElectorConPersona
	for rows.Next() {
		e, err := scanElectorConPersona(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan elector: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *PostgresElectoresRepository) CreateElector(ctx context.Context, e *domain.Elector) (int, error) {
	estado := e.Estado
	if estado == "" {
		estado = domain.EstadoPendiente
	}
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO electores (persona_id, estado, notas, asignado_a, enviar_lista)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, '')::uuid, $5)
		 RETURNING id`,
		e.PersonaID, estado, e.Notas, e.AsignadoA, e.EnviarLista,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create elector: %w", err)
	}
	return id, nil
}

func (r *PostgresElectoresRepository) UpdateElector(ctx context.Context, id int, e *domain.Elector) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE electores
		 SET estado = $2, notas = NULLIF($3, ''), asignado_a = NULLIF($4, '')::uuid, updated_at = NOW()
		 WHERE id = $1`,
		id, e.Estado, e.Notas, e.AsignadoA,
	)
	if err != nil {
		return fmt.Errorf("failed to update elector: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresElectoresRepository) DeleteElector(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM electores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete elector: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresElectoresRepository) UpdateElectorEstado(ctx context.Context, id int, estado domain.ElectorEstado) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE electores SET estado = $2, updated_at = NOW() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("failed to update elector estado: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresElectoresRepository) SetEnviarLista(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE electores SET enviar_lista = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to flag enviar_lista: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresElectoresRepository) GetEnviarLista(ctx context.Context, id int) (bool, error) {
	var flag bool
	err := r.db.QueryRowContext(ctx, `SELECT enviar_lista FROM electores WHERE id = $1`, id).Scan(&flag)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to read enviar_lista: %w", err)
	}
	return flag, nil
}

func (r *PostgresElectoresRepository) ListParaEnviar(ctx context.Context) ([]*domain.ElectorConPersona, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+electorJoinColumns+`
		 FROM electores e JOIN personas p ON p.id = e.persona_id
		 WHERE e.estado = $1 ORDER BY e.updated_at`,
		domain.EstadoParaEnviar)
	if err != nil {
		return nil, fmt.Errorf("failed to list electores para enviar: %w", err)
	}
	defer rows.Close()

	var items []*domain.ElectorConPersona
	for rows.Next() {
		e, err := scanElectorConPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan elector: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *PostgresElectoresRepository) MarkSobreEnviado(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE electores SET estado = $2, updated_at = NOW() WHERE id = $1 AND estado = $3`,
		id, domain.EstadoSobreEnviado, domain.EstadoParaEnviar)
	if err != nil {
		return fmt.Errorf("failed to mark sobre enviado: %w", err)
	}
	return requireAffected(res)
}
