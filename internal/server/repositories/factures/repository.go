package factures

import (
	"context"

	"github.com/facturio/facturio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, facture *models.Facture) (*models.Facture, error)
	GetByID(ctx context.Context, id int64) (*models.Facture, error)
	GetByNumero(ctx context.Context, numero string) (*models.Facture, error)
	List(ctx context.Context, skip, limit int) ([]*models.Facture, error)
	ListByClient(ctx context.Context, clientID int64) ([]*models.Facture, error)
	UpdateStatut(ctx context.Context, id int64, statut models.StatutFacture) (*models.Facture, error)
	Delete(ctx context.Context, id int64) error
}
