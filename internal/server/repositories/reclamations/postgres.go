package reclamations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/dbx"
	"github.com/facturio/facturio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const reclamationColumns = `id, sujet, description, date_creation, statut, client_id`

func (r *PostgresRepository) Create(ctx context.Context, reclamation *models.Reclamation) (*models.Reclamation, error) {

	query :=
		`INSERT INTO reclamations (sujet, description, statut, client_id)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, date_creation
		 `

	err := r.db.QueryRowContext(ctx, query,
		reclamation.Sujet, reclamation.Description, reclamation.Statut, reclamation.ClientID).
		Scan(&reclamation.ID, &reclamation.DateCreation)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return reclamation, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Reclamation, error) {
	query := `SELECT ` + reclamationColumns + ` FROM reclamations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*models.Reclamation, error) {
	query := `SELECT ` + reclamationColumns + ` FROM reclamations ORDER BY id OFFSET $1 LIMIT $2`
	return r.queryMany(ctx, query, skip, limit)
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID int64) ([]*models.Reclamation, error) {
	query := `SELECT ` + reclamationColumns + ` FROM reclamations WHERE client_id = $1 ORDER BY id`
	return r.queryMany(ctx, query, clientID)
}

func (r *PostgresRepository) UpdateStatut(ctx context.Context, id int64, statut models.StatutReclamation) (*models.Reclamation, error) {
	query :=
		`UPDATE reclamations SET statut = $2
		 WHERE id = $1
		 RETURNING ` + reclamationColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, statut))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reclamations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Reclamation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Reclamation
	for rows.Next() {
		rec := &models.Reclamation{}
		if err := rows.Scan(&rec.ID, &rec.Sujet, &rec.Description, &rec.DateCreation, &rec.Statut, &rec.ClientID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Reclamation, error) {
	rec := &models.Reclamation{}
	err := row.Scan(&rec.ID, &rec.Sujet, &rec.Description, &rec.DateCreation, &rec.Statut, &rec.ClientID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}
