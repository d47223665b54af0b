package httpapi

import (
	"net/http"
	"time"

	"github.com/facturio/facturio/internal/server/models"
	"github.com/gin-gonic/gin"
)

type factureRequest struct {
	Numero       string    `json:"numero" binding:"required,max=64"`
	Montant      float64   `json:"montant" binding:"required,gt=0"`
	DateEmission time.Time `json:"date_emission" binding:"required"`
	Statut       string    `json:"statut" binding:"required"`
	ClientID     int64     `json:"client_id" binding:"required,gt=0"`
}

type factureStatutRequest struct {
	Statut string `json:"statut" binding:"required"`
}

type factureResponse struct {
	ID           int64     `json:"id"`
	Numero       string    `json:"numero"`
	Montant      float64   `json:"montant"`
	DateEmission time.Time `json:"date_emission"`
	Statut       string    `json:"statut"`
	ClientID     int64     `json:"client_id"`
}

func toFactureResponse(f *models.Facture) factureResponse {
	return factureResponse{
		ID:           f.ID,
		Numero:       f.Numero,
		Montant:      f.Montant,
		DateEmission: f.DateEmission,
		Statut:       string(f.Statut),
		ClientID:     f.ClientID,
	}
}

func (s *Server) createFacture(c *gin.Context) {
	var req factureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statut, ok := models.ParseStatutFacture(req.Statut)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid statut"})
		return
	}

	f := &models.Facture{
		Numero:       req.Numero,
		Montant:      req.Montant,
		DateEmission: req.DateEmission,
		Statut:       statut,
		ClientID:     req.ClientID,
	}
	f, err := s.factures.Create(c.Request.Context(), f)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toFactureResponse(f))
}

func (s *Server) listFactures(c *gin.Context) {
	skip, limit := pagination(c)
	list, err := s.factures.List(c.Request.Context(), skip, limit)
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

func (s *Server) getFacture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	f, err := s.factures.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFactureResponse(f))
}

func (s *Server) updateFactureStatut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req factureStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statut, valid := models.ParseStatutFacture(req.Statut)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid statut"})
		return
	}

	f, err := s.factures.UpdateStatut(c.Request.Context(), id, statut)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFactureResponse(f))
}

func (s *Server) deleteFacture(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.factures.Delete(c.Request.Context(), id); err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
