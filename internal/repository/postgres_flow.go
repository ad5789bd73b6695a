package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"

	"github.com/lib/pq"
)

type PostgresFlowRepository struct {
	db *sql.DB
}

func NewPostgresFlowRepository(db *sql.DB) *PostgresFlowRepository {
	return &PostgresFlowRepository{db: db}
}

var _ FlowRepository = (*PostgresFlowRepository)(nil)

const preguntaColumns = `
	id,
	orden_default,
	texto,
	tipo,
	opciones,
	activa,
	COALESCE(accion, ''),
	resultado_si,
	resultado_no,
	created_at`

func scanPregunta(row interface{ Scan(...any) error }) (*domain.Pregunta, error) {
	var p domain.Pregunta
	var orden sql.NullInt64
	var opciones pq.StringArray
	var resultadoSi, resultadoNo sql.NullString
	err := row.Scan(
		&p.ID,
		&orden,
		&p.Texto,
		&p.Tipo,
		&opciones,
		&p.Activa,
		&p.Accion,
		&resultadoSi,
		&resultadoNo,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if orden.Valid {
		o := int(orden.Int64)
		p.OrdenDefault = &o
	}
	p.Opciones = []string(opciones)
	if resultadoSi.Valid {
		r := domain.Resultado(resultadoSi.String)
		p.ResultadoSi = &r
	}
	if resultadoNo.Valid {
		r := domain.Resultado(resultadoNo.String)
		p.ResultadoNo = &r
	}
	return &p, nil
}

func scanRegla(row interface{ Scan(...any) error }) (*domain.Regla, error) {
	var r domain.Regla
	var valor sql.NullString
	var destino sql.NullInt64
	err := row.Scan(&r.ID, &r.OrigenID, &valor, &destino, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if valor.Valid {
		v := valor.String
		r.Valor = &v
	}
	if destino.Valid {
		d := int(destino.Int64)
		r.DestinoID = &d
	}
	return &r, nil
}

func (r *PostgresFlowRepository) GetActivePreguntas(ctx context.Context) ([]domain.Pregunta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+preguntaColumns+` FROM preguntas_flow
		 WHERE activa = TRUE
		 ORDER BY orden_default ASC NULLS LAST, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active preguntas: %w", err)
	}
	defer rows.Close()

	var items []domain.Pregunta
	for rows.Next() {
		p, err := scanPregunta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pregunta: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *PostgresFlowRepository) GetAllReglas(ctx context.Context) ([]domain.Regla, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, pregunta_origen_id, respuesta_valor, pregunta_destino_id, created_at
		 FROM reglas_flow ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reglas: %w", err)
	}
	defer rows.Close()

	var items []domain.Regla
	for rows.Next() {
		rg, err := scanRegla(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regla: %w", err)
		}
		items = append(items, *rg)
	}
	return items, rows.Err()
}

func (r *PostgresFlowRepository) GetPregunta(ctx context.Context, id int) (*domain.Pregunta, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+preguntaColumns+` FROM preguntas_flow WHERE id = $1`, id)
	p, err := scanPregunta(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pregunta: %w", err)
	}
	return p, nil
}

func (r *PostgresFlowRepository) ListPreguntasConReglas(ctx context.Context) ([]*domain.PreguntaConReglas, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+preguntaColumns+` FROM preguntas_flow
		 ORDER BY orden_default ASC NULLS LAST, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list preguntas: %w", err)
	}
	defer rows.Close()

	var items []*domain.PreguntaConReglas
	byID := make(map[int]*domain.PreguntaConReglas)
	for rows.Next() {
		p, err := scanPregunta(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pregunta: %w", err)
		}
		item := &domain.PreguntaConReglas{Pregunta: *p, Reglas: []domain.Regla{}}
		items = append(items, item)
		byID[p.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reglas, err := r.GetAllReglas(ctx)
	if err != nil {
		return nil, err
	}
	for _, rg := range reglas {
		if item, ok := byID[rg.OrigenID]; ok {
			item.Reglas = append(item.Reglas, rg)
		}
	}
	return items, nil
}

func (r *PostgresFlowRepository) CreatePregunta(ctx context.Context, p *domain.Pregunta) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO preguntas_flow (orden_default, texto, tipo, opciones, activa, accion, resultado_si, resultado_no)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
		 RETURNING id`,
		p.OrdenDefault, p.Texto, p.Tipo, pq.Array(p.Opciones), p.Activa, p.Accion,
		resultadoOrNil(p.ResultadoSi), resultadoOrNil(p.ResultadoNo),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create pregunta: %w", err)
	}
	return id, nil
}

func (r *PostgresFlowRepository) UpdatePregunta(ctx context.Context, id int, p *domain.Pregunta) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE preguntas_flow
		 SET orden_default = $2, texto = $3, tipo = $4, opciones = $5, activa = $6,
		     accion = NULLIF($7, ''), resultado_si = $8, resultado_no = $9
		 WHERE id = $1`,
		id, p.OrdenDefault, p.Texto, p.Tipo, pq.Array(p.Opciones), p.Activa, p.Accion,
		resultadoOrNil(p.ResultadoSi), resultadoOrNil(p.ResultadoNo),
	)
	if err != nil {
		return fmt.Errorf("failed to update pregunta: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresFlowRepository) SetPreguntaActiva(ctx context.Context, id int, activa bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE preguntas_flow SET activa = $2 WHERE id = $1`, id, activa)
	if err != nil {
		return fmt.Errorf("failed to toggle pregunta: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresFlowRepository) DeletePregunta(ctx context.Context, id int) error {
	// outgoing and incoming rules go with the question
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reglas_flow WHERE pregunta_origen_id = $1 OR pregunta_destino_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reglas of pregunta: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM preguntas_flow WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pregunta: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresFlowRepository) GetReglasByOrigen(ctx context.Context, origenID int) ([]domain.Regla, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, pregunta_origen_id, respuesta_valor, pregunta_destino_id, created_at
		 FROM reglas_flow WHERE pregunta_origen_id = $1 ORDER BY id`, origenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reglas by origen: %w", err)
	}
	defer rows.Close()

	var items []domain.Regla
	for rows.Next() {
		rg, err := scanRegla(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan regla: %w", err)
		}
		items = append(items, *rg)
	}
	return items, rows.Err()
}

func (r *PostgresFlowRepository) CreateRegla(ctx context.Context, rg *domain.Regla) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO reglas_flow (pregunta_origen_id, respuesta_valor, pregunta_destino_id)
		 VALUES ($1, $2, $3) RETURNING id`,
		rg.OrigenID, rg.Valor, rg.DestinoID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("failed to create regla: %w", err)
	}
	return id, nil
}

func (r *PostgresFlowRepository) DeleteRegla(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reglas_flow WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete regla: %w", err)
	}
	return requireAffected(res)
}

func resultadoOrNil(r *domain.Resultado) any {
	if r == nil {
		return nil
	}
	return string(*r)
}
