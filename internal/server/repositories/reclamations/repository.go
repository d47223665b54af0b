package reclamations

import (
	"context"

	"github.com/facturio/facturio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, reclamation *models.Reclamation) (*models.Reclamation, error)
	GetByID(ctx context.Context, id int64) (*models.Reclamation, error)
	List(ctx context.Context, skip, limit int) ([]*models.Reclamation, error)
	ListByClient(ctx context.Context, clientID int64) ([]*models.Reclamation, error)
	UpdateStatut(ctx context.Context, id int64, statut models.StatutReclamation) (*models.Reclamation, error)
	Delete(ctx context.Context, id int64) error
}
