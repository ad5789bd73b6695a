package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"campana-api/internal/domain"
)

type PostgresLlamadasRepository struct {
	db *sql.DB
}

func NewPostgresLlamadasRepository(db *sql.DB) *PostgresLlamadasRepository {
	return &PostgresLlamadasRepository{db: db}
}

var _ LlamadasRepository = (*PostgresLlamadasRepository)(nil)

func (r *PostgresLlamadasRepository) CreateLlamada(ctx context.Context, l *domain.Llamada, respuestas []domain.Respuesta) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO llamadas (elector_id, voluntario_id, resultado, fecha)
		 VALUES ($1, $2::uuid, $3, $4)
		 RETURNING id`,
		l.ElectorID, l.VoluntarioID, l.Resultado, l.Fecha,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert llamada: %w", err)
	}

	for _, resp := range respuestas {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO respuestas_flow (llamada_id, pregunta_id, valor) VALUES ($1, $2, NULLIF($3, ''))`,
			id, resp.PreguntaID, resp.Valor,
		); err != nil {
			return 0, fmt.Errorf("failed to insert respuesta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit llamada: %w", err)
	}
	return id, nil
}

func (r *PostgresLlamadasRepository) ListLlamadas(ctx context.Context, filters LlamadaFilters, page, size int) ([]*domain.LlamadaConDetalles, int, error) {
	conds := []string{"TRUE"}
	args := []any{}
	if filters.VoluntarioID != "" {
		args = append(args, filters.VoluntarioID)
		conds = append(conds, fmt.Sprintf("l.voluntario_id::text = $%d", len(args)))
	}
	if filters.ElectorID != 0 {
		args = append(args, filters.ElectorID)
		conds = append(conds, fmt.Sprintf("l.elector_id = $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM llamadas l WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count llamadas: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(
		`SELECT l.id, l.elector_id, l.voluntario_id::text, l.resultado, l.fecha, l.created_at,
		        p.nombre, pe.nombre
		 FROM llamadas l
		 JOIN electores e ON e.id = l.elector_id
		 JOIN personas p ON p.id = e.persona_id
		 JOIN perfiles pe ON pe.id = l.voluntario_id
		 WHERE %s
		 ORDER BY l.created_at DESC, l.id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list llamadas: %w", err)
	}
	defer rows.Close()

	var items []*domain.LlamadaConDetalles
	for rows.Next() {
		var l domain.LlamadaConDetalles
		if err := rows.Scan(
			&l.ID, &l.ElectorID, &l.VoluntarioID, &l.Resultado, &l.Fecha, &l.CreatedAt,
			&l.ElectorNombre, &l.VoluntarioNombre,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan llamada: %w", err)
		}
		items = append(items, &l)
	}
	return items, total, rows.Err()
}

func (r *PostgresLlamadasRepository) GetRespuestas(ctx context.Context, llamadaID int) ([]domain.Respuesta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pregunta_id, COALESCE(valor, '') FROM respuestas_flow WHERE llamada_id = $1 ORDER BY id`,
		llamadaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list respuestas: %w", err)
	}
	defer rows.Close()

	var items []domain.Respuesta
	for rows.Next() {
		var resp domain.Respuesta
		if err := rows.Scan(&resp.PreguntaID, &resp.Valor); err != nil {
			return nil, fmt.Errorf("failed to scan respuesta: %w", err)
		}
		items = append(items, resp)
	}
	return items, rows.Err()
}
