package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"
)

type PostgresGastosRepository struct {
	db *sql.DB
}

func NewPostgresGastosRepository(db *sql.DB) *PostgresGastosRepository {
	return &PostgresGastosRepository{db: db}
}

var _ GastosRepository = (*PostgresGastosRepository)(nil)

func (r *PostgresGastosRepository) ListGastos(ctx context.Context, rubro string) ([]*domain.Gasto, error) {
	query := `SELECT id, rubro, monto, fecha, COALESCE(concepto, ''), COALESCE(programa_campana, ''), COALESCE(quien_pago, ''), created_at
	          FROM gastos`
	args := []any{}
	if rubro != "" {
		query += ` WHERE rubro = $1`
		args = append(args, rubro)
	}
	query += ` ORDER BY fecha DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gastos: %w", err)
	}
	defer rows.Close()

	var items []*domain.Gasto
	for rows.Next() {
		var g domain.Gasto
		if err := rows.Scan(&g.ID, &g.Rubro, &g.Monto, &g.Fecha, &g.Concepto, &g.ProgramaCampana, &g.QuienPago, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan gasto: %w", err)
		}
		items = append(items, &g)
	}
	return items, rows.Err()
}

func (r *PostgresGastosRepository) CreateGasto(ctx context.Context, g *domain.Gasto) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO gastos (rubro, monto, fecha, concepto, programa_campana, quien_pago)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
		 RETURNING id`,
		g.Rubro, g.Monto, g.Fecha, g.Concepto, g.ProgramaCampana, g.QuienPago,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create gasto: %w", err)
	}
	return id, nil
}

func (r *PostgresGastosRepository) UpdateGasto(ctx context.Context, id int, g *domain.Gasto) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE gastos
		 SET rubro = $2, monto = $3, fecha = $4, concepto = NULLIF($5, ''),
		     programa_campana = NULLIF($6, ''), quien_pago = NULLIF($7, '')
		 WHERE id = $1`,
		id, g.Rubro, g.Monto, g.Fecha, g.Concepto, g.ProgramaCampana, g.QuienPago,
	)
	if err != nil {
		return fmt.Errorf("failed to update gasto: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresGastosRepository) DeleteGasto(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gastos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gasto: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresGastosRepository) TotalsByRubro(ctx context.Context) (map[domain.GastoRubro]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rubro, COALESCE(SUM(monto), 0) FROM gastos GROUP BY rubro`)
	if err != nil {
		return nil, fmt.Errorf("failed to total gastos: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.GastoRubro]float64)
	for rows.Next() {
		var rubro domain.GastoRubro
		var monto float64
		if err := rows.Scan(&rubro, &monto); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		totals[rubro] = monto
	}
	return totals, rows.Err()
}
