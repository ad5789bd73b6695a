package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campana-api/internal/domain"
)

type PostgresPersonasRepository struct {
	db *sql.DB
}

func NewPostgresPersonasRepository(db *sql.DB) *PostgresPersonasRepository {
	return &PostgresPersonasRepository{db: db}
}

var _ PersonasRepository = (*PostgresPersonasRepository)(nil)

const personaColumns = `
	id,
	COALESCE(cedula, ''),
	nombre,
	COALESCE(nro_socio, ''),
	fecha_nacimiento,
	COALESCE(telefono, ''),
	COALESCE(celular, ''),
	COALESCE(email, ''),
	COALESCE(direccion, ''),
	created_at,
	updated_at`

func scanPersona(row interface{ Scan(...any) error }) (*domain.Persona, error) {
	var p domain.Persona
	var fechaNacimiento sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.Cedula,
		&p.Nombre,
		&p.NroSocio,
		&fechaNacimiento,
		&p.Telefono,
		&p.Celular,
		&p.Email,
		&p.Direccion,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fechaNacimiento.Valid {
		p.FechaNacimiento = &fechaNacimiento.Time
	}
	return &p, nil
}

func (r *PostgresPersonasRepository) GetPersona(ctx context.Context, id int) (*domain.Persona, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personaColumns+` FROM personas WHERE id = $1`, id)
	p, err := scanPersona(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}
	return p, nil
}

func (r *PostgresPersonasRepository) GetPersonaByCedula(ctx context.Context, cedula string) (*domain.Persona, error) {
	if cedula == "" {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+personaColumns+` FROM personas WHERE cedula = $1`, cedula)
	p, err := scanPersona(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get persona by cedula: %w", err)
	}
	return p, nil
}

func (r *PostgresPersonasRepository) ListPersonas(ctx context.Context, filters PersonaFilters, page, size int) ([]*domain.Persona, int, error) {
	where := "TRUE"
	args := []any{}
	if s := strings.TrimSpace(filters.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = fmt.Sprintf("(nombre ILIKE $%d OR cedula ILIKE $%d OR nro_socio ILIKE $%d)", len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM personas WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count personas: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT %s FROM personas WHERE %s ORDER BY nombre, id LIMIT $%d OFFSET $%d`,
		personaColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	var items []*domain.Persona
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan persona: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PostgresPersonasRepository) CreatePersona(ctx context.Context, p *domain.Persona) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO personas (cedula, nombre, nro_socio, fecha_nacimiento, telefono, celular, email, direccion)
		 VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''))
		 RETURNING id`,
		p.Cedula, p.Nombre, p.NroSocio, p.FechaNacimiento, p.Telefono, p.Celular, p.Email, p.Direccion,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create persona: %w", err)
	}
	return id, nil
}

func (r *PostgresPersonasRepository) UpdatePersona(ctx context.Context, id int, p *domain.Persona) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE personas
		 SET cedula = NULLIF($2, ''), nombre = $3, nro_socio = NULLIF($4, ''), fecha_nacimiento = $5,
		     telefono = NULLIF($6, ''), celular = NULLIF($7, ''), email = NULLIF($8, ''),
		     direccion = NULLIF($9, ''), updated_at = NOW()
		 WHERE id = $1`,
		id, p.Cedula, p.Nombre, p.NroSocio, p.FechaNacimiento, p.Telefono, p.Celular, p.Email, p.Direccion,
	)
	if err != nil {
		return fmt.Errorf("failed to update persona: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPersonasRepository) UpdateDireccion(ctx context.Context, id int, direccion string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE personas SET direccion = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`,
		id, direccion,
	)
	if err != nil {
		return fmt.Errorf("failed to update direccion: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresPersonasRepository) DeletePersona(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return requireAffected(res)
}
