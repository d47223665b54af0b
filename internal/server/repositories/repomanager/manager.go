package repomanager

import (
	"context"
	"database/sql"

	"github.com/facturio/facturio/internal/dbx"
	"github.com/facturio/facturio/internal/server/repositories/attachments"
	"github.com/facturio/facturio/internal/server/repositories/clients"
	"github.com/facturio/facturio/internal/server/repositories/factures"
	"github.com/facturio/facturio/internal/server/repositories/reclamations"
	"github.com/facturio/facturio/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Clients(db dbx.DBTX) clients.Repository
	Factures(db dbx.DBTX) factures.Repository
	Reclamations(db dbx.DBTX) reclamations.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
