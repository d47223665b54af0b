package clients

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

func (r *PostgresRepository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {

	query :=
		`INSERT INTO clients (nom, email, telephone)
         VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		client.Nom, client.Email, client.Telephone).Scan(&client.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return client, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT id, nom, email, telephone FROM clients WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	query := `SELECT id, nom, email, telephone FROM clients WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*models.Client, error) {
	query := `SELECT id, nom, email, telephone FROM clients ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.Nom, &client.Email, &client.Telephone); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	query :=
		`UPDATE clients SET nom = $2, email = $3, telephone = $4
		 WHERE id = $1
		 RETURNING id, nom, email, telephone
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query,
		client.ID, client.Nom, client.Email, client.Telephone))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
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

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Client, error) {
	client := &models.Client{}
	err := row.Scan(&client.ID, &client.Nom, &client.Email, &client.Telephone)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return client, nil
}
