package repository

import (
	"context"
	"database/sql"
	"fmt"

	"campana-api/internal/domain"
)

type PostgresPerfilesRepository struct {
	db *sql.DB
}

func NewPostgresPerfilesRepository(db *sql.DB) *PostgresPerfilesRepository {
	return &PostgresPerfilesRepository{db: db}
}

var _ PerfilesRepository = (*PostgresPerfilesRepository)(nil)

const perfilColumns = `id::text, nombre, email, rol, COALESCE(avatar_url, ''), created_at, updated_at`

func scanPerfil(row interface{ Scan(...any) error }) (*domain.Perfil, error) {
	var p domain.Perfil
	err := row.Scan(&p.ID, &p.Nombre, &p.Email, &p.Rol, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPerfilesRepository) GetPerfil(ctx context.Context, id string) (*domain.Perfil, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+perfilColumns+` FROM perfiles WHERE id::text = $1`, id)
	p, err := scanPerfil(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get perfil: %w", err)
	}
	return p, nil
}

func (r *PostgresPerfilesRepository) ListPerfiles(ctx context.Context) ([]*domain.Perfil, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+perfilColumns+` FROM perfiles ORDER BY nombre, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list perfiles: %w", err)
	}
	defer rows.Close()

	var items []*domain.Perfil
	for rows.Next() {
		p, err := scanPerfil(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan perfil: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PostgresPerfilesRepository) UpdatePerfilRol(ctx context.Context, id string, rol domain.UserRol) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE perfiles SET rol = $2, updated_at = NOW() WHERE id::text = $1`, id, rol)
	if err != nil {
		return fmt.Errorf("failed to update perfil rol: %w", err)
	}
	return requireAffected(res)
}
