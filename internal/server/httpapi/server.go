// Package httpapi exposes the REST interface: authentication, the client
// directory, factures, reclamations with attachments, and admin-only account
// management.
package httpapi

import (
	"github.com/facturio/facturio/internal/logging"
	"github.com/facturio/facturio/internal/server/auth"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/facturio/facturio/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Server struct {
	users        *services.UserService
	clients      *services.ClientService
	factures     *services.FactureService
	reclamations *services.ReclamationService
	tokens       *auth.TokenCodec
	logger       logging.Logger
}

func NewServer(
	users *services.UserService,
	clients *services.ClientService,
	factures *services.FactureService,
	reclamations *services.ReclamationService,
	tokens *auth.TokenCodec,
	logger logging.Logger,
) *Server {
	return &Server{
		users:        users,
		clients:      clients,
		factures:     factures,
		reclamations: reclamations,
		tokens:       tokens,
		logger:       logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", s.optionalAuth(), s.root)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.GET("/me", s.requireAuth(), s.me)
	}

	clients := r.Group("/clients", s.requireAuth())
	{
		clients.POST("", s.createClient)
		clients.GET("", s.listClients)
		clients.GET("/:id", s.getClient)
		clients.PUT("/:id", s.updateClient)
		clients.GET("/:id/factures", s.listClientFactures)
		clients.GET("/:id/reclamations", s.listClientReclamations)
	}
	r.DELETE("/clients/:id", s.requireRole(models.RoleAdmin), s.deleteClient)

	factures := r.Group("/factures", s.requireAuth())
	{
		factures.POST("", s.createFacture)
		factures.GET("", s.listFactures)
		factures.GET("/:id", s.getFacture)
		factures.PATCH("/:id/statut", s.updateFactureStatut)
	}
	r.DELETE("/factures/:id", s.requireRole(models.RoleAdmin), s.deleteFacture)

	reclamations := r.Group("/reclamations", s.requireAuth())
	{
		reclamations.POST("", s.createReclamation)
		reclamations.GET("", s.listReclamations)
		reclamations.GET("/:id", s.getReclamation)
		reclamations.PATCH("/:id/statut", s.updateReclamationStatut)
		reclamations.POST("/:id/attachments", s.createAttachment)
		reclamations.GET("/:id/attachments", s.listAttachments)
		reclamations.GET("/:id/attachments/:attachmentID/download", s.downloadAttachment)
	}
	r.DELETE("/reclamations/:id", s.requireRole(models.RoleAdmin), s.deleteReclamation)

	users := r.Group("/users", s.requireRole(models.RoleAdmin))
	{
		users.GET("", s.listUsers)
		users.PATCH("/:id/is_active", s.setUserActive)
		users.PATCH("/:id/role", s.setUserRole)
	}

	return r
}
