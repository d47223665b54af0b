package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/facturio/facturio/internal/server/repositories/repomanager"
)

// FactureService manages invoices. Creation is scoped to an existing client;
// reads are open to any authenticated caller.
type FactureService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFactureService(db *sql.DB, m repomanager.RepositoryManager) *FactureService {
	return &FactureService{db: db, repomanager: m}
}

// Create adds a facture for the given client. The client must exist and the
// numero must be unused.
func (s *FactureService) Create(ctx context.Context, facture *models.Facture) (*models.Facture, error) {
	if _, err := s.repomanager.Clients(s.db).GetByID(ctx, facture.ClientID); err != nil {
		return nil, err
	}

	repo := s.repomanager.Factures(s.db)
	if _, err := repo.GetByNumero(ctx, facture.Numero); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	f, err := repo.Create(ctx, facture)
	if err != nil {
		return nil, common.ErrorAlreadyExists
	}
	return f, nil
}

func (s *FactureService) GetByID(ctx context.Context, id int64) (*models.Facture, error) {
	return s.repomanager.Factures(s.db).GetByID(ctx, id)
}

func (s *FactureService) List(ctx context.Context, skip, limit int) ([]*models.Facture, error) {
	return s.repomanager.Factures(s.db).List(ctx, skip, limit)
}

// ListByClient returns the client's factures. An unknown client is an error
// rather than an empty list.
func (s *FactureService) ListByClient(ctx context.Context, clientID int64) ([]*models.Facture, error) {
	if _, err := s.repomanager.Clients(s.db).GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repomanager.Factures(s.db).ListByClient(ctx, clientID)
}

func (s *FactureService) UpdateStatut(ctx context.Context, id int64, statut models.StatutFacture) (*models.Facture, error) {
	return s.repomanager.Factures(s.db).UpdateStatut(ctx, id, statut)
}

func (s *FactureService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Factures(s.db).Delete(ctx, id)
}
