package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"
)

type PostgresCampanasRepository struct {
	db *sql.DB
}

func NewPostgresCampanasRepository(db *sql.DB) *PostgresCampanasRepository {
	return &PostgresCampanasRepository{db: db}
}

var _ CampanasRepository = (*PostgresCampanasRepository)(nil)

const campanaColumns = `id, asunto, template_html, estado, COALESCE(nombre, ''), COALESCE(segmento, ''), enviados, created_at`

func scanCampana(row interface{ Scan(...any) error }) (*domain.CampanaEmail, error) {
	var c domain.CampanaEmail
	err := row.Scan(&c.ID, &c.Asunto, &c.TemplateHTML, &c.Estado, &c.Nombre, &c.Segmento, &c.Enviados, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCampanasRepository) GetCampana(ctx context.Context, id int) (*domain.CampanaEmail, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+campanaColumns+` FROM campanas_email WHERE id = $1`, id)
	c, err := scanCampana(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campana: %w", err)
	}
	return c, nil
}

func (r *PostgresCampanasRepository) ListCampanas(ctx context.Context) ([]*domain.CampanaEmail, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+campanaColumns+` FROM campanas_email ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campanas: %w", err)
	}
	defer rows.Close()

	var items []*domain.CampanaEmail
	for rows.Next() {
		c, err := scanCampana(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campana: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *PostgresCampanasRepository) CreateCampana(ctx context.Context, c *domain.CampanaEmail) (int, error) {
	estado := c.Estado
	if estado == "" {
		estado = domain.CampanaBorrador
	}
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO campanas_email (asunto, template_html, estado, nombre, segmento, enviados)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), 0) RETURNING id`,
		c.Asunto, c.TemplateHTML, estado, c.Nombre, c.Segmento,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create campana: %w", err)
	}
	return id, nil
}

func (r *PostgresCampanasRepository) UpdateCampana(ctx context.Context, id int, c *domain.CampanaEmail) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE campanas_email
		 SET asunto = $2, template_html = $3, nombre = NULLIF($4, ''), segmento = NULLIF($5, '')
		 WHERE id = $1 AND estado = $6`,
		id, c.Asunto, c.TemplateHTML, c.Nombre, c.Segmento, domain.CampanaBorrador,
	)
	if err != nil {
		return fmt.Errorf("failed to update campana: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresCampanasRepository) DeleteCampana(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campanas_email WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campana: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresCampanasRepository) SetCampanaEstado(ctx context.Context, id int, estado domain.CampanaEstado, enviados int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE campanas_email SET estado = $2, enviados = $3 WHERE id = $1`, id, estado, enviados)
	if err != nil {
		return fmt.Errorf("failed to update campana estado: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresCampanasRepository) SegmentEmails(ctx context.Context, segmento string) ([]string, error) {
	var query string
	switch segmento {
	case domain.SegmentoAceptaron:
		query = `SELECT DISTINCT p.email FROM personas p
		         JOIN electores e ON e.persona_id = p.id
		         WHERE p.email IS NOT NULL AND e.estado IN ('Acepto', 'Para_Enviar', 'Sobre_Enviado')`
	case domain.SegmentoPendientes:
		query = `SELECT DISTINCT p.email FROM personas p
		         JOIN electores e ON e.persona_id = p.id
		         WHERE p.email IS NOT NULL AND e.estado = 'Pendiente'`
	case domain.SegmentoLista:
		query = `SELECT DISTINCT p.email FROM personas p
		         JOIN rol_lista rl ON rl.persona_id = p.id
		         WHERE p.email IS NOT NULL`
	case domain.SegmentoTodos, "":
		query = `SELECT email FROM personas WHERE email IS NOT NULL`
	default:
		return nil, fmt.Errorf("unknown segmento %q", segmento)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve segmento: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}
