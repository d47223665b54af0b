package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/facturio/facturio/internal/server/repositories/repomanager"
)

// ClientService manages the client directory.
type ClientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewClientService(db *sql.DB, m repomanager.RepositoryManager) *ClientService {
	return &ClientService{db: db, repomanager: m}
}

// Create adds a client. A client with the same email yields ErrorAlreadyExists.
func (s *ClientService) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	repo := s.repomanager.Clients(s.db)

	if _, err := repo.GetByEmail(ctx, client.Email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	c, err := repo.Create(ctx, client)
	if err != nil {
		return nil, common.ErrorAlreadyExists
	}
	return c, nil
}

func (s *ClientService) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	return s.repomanager.Clients(s.db).GetByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context, skip, limit int) ([]*models.Client, error) {
	return s.repomanager.Clients(s.db).List(ctx, skip, limit)
}

// Update replaces the mutable fields of an existing client.
func (s *ClientService) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	repo := s.repomanager.Clients(s.db)

	if existing, err := repo.GetByEmail(ctx, client.Email); err == nil {
		if existing.ID != client.ID {
			return nil, common.ErrorAlreadyExists
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	return repo.Update(ctx, client)
}

// Delete removes a client together with its factures and reclamations
// (cascaded by the schema).
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Clients(s.db).Delete(ctx, id)
}
