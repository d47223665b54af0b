package attachments

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

func (r *PostgresRepository) Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error) {

	query :=
		`INSERT INTO reclamation_attachments (reclamation_id, storage_key, filename)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		attachment.ReclamationID, attachment.StorageKey, attachment.Filename).
		Scan(&attachment.ID, &attachment.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attachment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Attachment, error) {
	query :=
		`SELECT id, reclamation_id, storage_key, filename, created_at
		 FROM reclamation_attachments
		 WHERE id = $1
		 `

	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&a.ID, &a.ReclamationID, &a.StorageKey, &a.Filename, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) ListByReclamation(ctx context.Context, reclamationID int64) ([]*models.Attachment, error) {
	query :=
		`SELECT id, reclamation_id, storage_key, filename, created_at
		 FROM reclamation_attachments
		 WHERE reclamation_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, reclamationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Attachment
	for rows.Next() {
		a := &models.Attachment{}
		if err := rows.Scan(&a.ID, &a.ReclamationID, &a.StorageKey, &a.Filename, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reclamation_attachments WHERE id = $1`, id)
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
