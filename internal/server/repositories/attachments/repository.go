package attachments

import (
	"context"

	"github.com/facturio/facturio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	GetByID(ctx context.Context, id int64) (*models.Attachment, error)
	ListByReclamation(ctx context.Context, reclamationID int64) ([]*models.Attachment, error)
	Delete(ctx context.Context, id int64) error
}
