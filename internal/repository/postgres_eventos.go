package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"
)

type PostgresEventosRepository struct {
	db *sql.DB
}

func NewPostgresEventosRepository(db *sql.DB) *PostgresEventosRepository {
	return &PostgresEventosRepository{db: db}
}

var _ EventosRepository = (*PostgresEventosRepository)(nil)

func (r *PostgresEventosRepository) ListEventos(ctx context.Context) ([]*domain.Evento, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, COALESCE(descripcion, ''), fecha, COALESCE(direccion, ''), created_at
		 FROM eventos ORDER BY fecha, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list eventos: %w", err)
	}
	defer rows.Close()

	var items []*domain.Evento
	for rows.Next() {
		var e domain.Evento
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Descripcion, &e.Fecha, &e.Direccion, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evento: %w", err)
		}
		items = append(items, &e)
	}
	return items, rows.Err()
}

func (r *PostgresEventosRepository) CreateEvento(ctx context.Context, e *domain.Evento) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO eventos (nombre, descripcion, fecha, direccion)
		 VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, '')) RETURNING id`,
		e.Nombre, e.Descripcion, e.Fecha, e.Direccion,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create evento: %w", err)
	}
	return id, nil
}

func (r *PostgresEventosRepository) UpdateEvento(ctx context.Context, id int, e *domain.Evento) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE eventos SET nombre = $2, descripcion = NULLIF($3, ''), fecha = $4, direccion = NULLIF($5, '')
		 WHERE id = $1`,
		id, e.Nombre, e.Descripcion, e.Fecha, e.Direccion,
	)
	if err != nil {
		return fmt.Errorf("failed to update evento: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresEventosRepository) DeleteEvento(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM eventos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evento: %w", err)
	}
	return requireAffected(res)
}
