package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"
)

type PostgresListaRepository struct {
	db *sql.DB
}

func NewPostgresListaRepository(db *sql.DB) *PostgresListaRepository {
	return &PostgresListaRepository{db: db}
}

var _ ListaRepository = (*PostgresListaRepository)(nil)

func (r *PostgresListaRepository) ListRolesLista(ctx context.Context, tipo string) ([]*domain.RolLista, error) {
	query := `SELECT id, persona_id, tipo, COALESCE(posicion, ''), COALESCE(quien_lo_trajo, ''), COALESCE(comentario, ''), created_at
	          FROM rol_lista`
	args := []any{}
	if tipo != "" {
		query += ` WHERE tipo = $1`
		args = append(args, tipo)
	}
	query += ` ORDER BY tipo, posicion NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rol_lista: %w", err)
	}
	defer rows.Close()

	var items []*domain.RolLista
	for rows.Next() {
		var rl domain.RolLista
		if err := rows.Scan(&rl.ID, &rl.PersonaID, &rl.Tipo, &rl.Posicion, &rl.QuienLoTrajo, &rl.Comentario, &rl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rol_lista: %w", err)
		}
		items = append(items, &rl)
	}
	return items, rows.Err()
}

func (r *PostgresListaRepository) CreateRolLista(ctx context.Context, rl *domain.RolLista) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO rol_lista (persona_id, tipo, posicion, quien_lo_trajo, comentario)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))
		 RETURNING id`,
		rl.PersonaID, rl.Tipo, rl.Posicion, rl.QuienLoTrajo, rl.Comentario,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create rol_lista: %w", err)
	}
	return id, nil
}

func (r *PostgresListaRepository) UpdateRolLista(ctx context.Context, id int, rl *domain.RolLista) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rol_lista
		 SET tipo = $2, posicion = NULLIF($3, ''), quien_lo_trajo = NULLIF($4, ''), comentario = NULLIF($5, '')
		 WHERE id = $1`,
		id, rl.Tipo, rl.Posicion, rl.QuienLoTrajo, rl.Comentario,
	)
	if err != nil {
		return fmt.Errorf("failed to update rol_lista: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresListaRepository) DeleteRolLista(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rol_lista WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rol_lista: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresListaRepository) ListComisionIntereses(ctx context.Context, comision string) ([]*domain.ComisionInteres, error) {
	query := `SELECT id, persona_id, comision, created_at FROM comision_interes`
	args := []any{}
	if comision != "" {
		query += ` WHERE comision = $1`
		args = append(args, comision)
	}
	query += ` ORDER BY comision, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comision_interes: %w", err)
	}
	defer rows.Close()

	var items []*domain.ComisionInteres
	for rows.Next() {
		var ci domain.ComisionInteres
		if err := rows.Scan(&ci.ID, &ci.PersonaID, &ci.Comision, &ci.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comision_interes: %w", err)
		}
		items = append(items, &ci)
	}
	return items, rows.Err()
}

func (r *PostgresListaRepository) CreateComisionInteres(ctx context.Context, c *domain.ComisionInteres) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comision_interes (persona_id, comision) VALUES ($1, $2) RETURNING id`,
		c.PersonaID, c.Comision,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create comision_interes: %w", err)
	}
	return id, nil
}

func (r *PostgresListaRepository) DeleteComisionInteres(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comision_interes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comision_interes: %w", err)
	}
	return requireAffected(res)
}
