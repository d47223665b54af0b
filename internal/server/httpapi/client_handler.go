package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/gin-gonic/gin"
)

type clientRequest struct {
	Nom       string  `json:"nom" binding:"required,max=128"`
	Email     string  `json:"email" binding:"required,email"`
	Telephone *string `json:"telephone" binding:"omitempty,max=32"`
}

type clientResponse struct {
	ID        int64   `json:"id"`
	Nom       string  `json:"nom"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone"`
}

func toClientResponse(c *models.Client) clientResponse {
	return clientResponse{ID: c.ID, Nom: c.Nom, Email: c.Email, Telephone: c.Telephone}
}

// pathID parses the numeric :id path parameter. On failure it writes the 400
// response and reports false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// pagination reads skip/limit query parameters with sane bounds.
func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if skip < 0 {
		skip = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

// writeServiceError maps service-level sentinels to HTTP responses.
func (s *Server) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) createClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{Nom: req.Nom, Email: req.Email, Telephone: req.Telephone}
	client, err := s.clients.Create(c.Request.Context(), client)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

func (s *Server) listClients(c *gin.Context) {
	skip, limit := pagination(c)
	list, err := s.clients.List(c.Request.Context(), skip, limit)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]clientResponse, 0, len(list))
	for _, client := range list {
		out = append(out, toClientResponse(client))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	client, err := s.clients.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

func (s *Server) updateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{ID: id, Nom: req.Nom, Email: req.Email, Telephone: req.Telephone}
	client, err := s.clients.Update(c.Request.Context(), client)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toClientResponse(client))
}

func (s *Server) deleteClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.clients.Delete(c.Request.Context(), id); err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listClientFactures(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := s.factures.ListByClient(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]factureResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFactureResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listClientReclamations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := s.reclamations.ListByClient(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]reclamationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReclamationResponse(r))
	}
	c.JSON(http.StatusOK, out)
}
