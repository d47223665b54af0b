package factures

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

const factureColumns = `id, numero, montant, date_emission, statut, client_id`

func (r *PostgresRepository) Create(ctx context.Context, facture *models.Facture) (*models.Facture, error) {

	query :=
		`INSERT INTO factures (numero, montant, date_emission, statut, client_id)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		facture.Numero, facture.Montant, facture.DateEmission, facture.Statut, facture.ClientID).
		Scan(&facture.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return facture, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Facture, error) {
	query := `SELECT ` + factureColumns + ` FROM factures WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByNumero(ctx context.Context, numero string) (*models.Facture, error) {
	query := `SELECT ` + factureColumns + ` FROM factures WHERE numero = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, numero))
}

func (r *PostgresRepository) List(ctx context.Context, skip, limit int) ([]*models.Facture, error) {
	query := `SELECT ` + factureColumns + ` FROM factures ORDER BY id OFFSET $1 LIMIT $2`
	return r.queryMany(ctx, query, skip, limit)
}

func (r *PostgresRepository) ListByClient(ctx context.Context, clientID int64) ([]*models.Facture, error) {
	query := `SELECT ` + factureColumns + ` FROM factures WHERE client_id = $1 ORDER BY id`
	return r.queryMany(ctx, query, clientID)
}

func (r *PostgresRepository) UpdateStatut(ctx context.Context, id int64, statut models.StatutFacture) (*models.Facture, error) {
	query :=
		`UPDATE factures SET statut = $2
		 WHERE id = $1
		 RETURNING ` + factureColumns

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, statut))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM factures WHERE id = $1`, id)
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

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Facture, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Facture
	for rows.Next() {
		f := &models.Facture{}
		if err := rows.Scan(&f.ID, &f.Numero, &f.Montant, &f.DateEmission, &f.Statut, &f.ClientID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Facture, error) {
	f := &models.Facture{}
	err := row.Scan(&f.ID, &f.Numero, &f.Montant, &f.DateEmission, &f.Statut, &f.ClientID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}
