package httpapi

import (
	"net/http"
	"time"

	"github.com/facturio/facturio/internal/server/models"
	"github.com/gin-gonic/gin"
)

type reclamationRequest struct {
	Sujet       string `json:"sujet" binding:"required,max=256"`
	Description string `json:"description" binding:"required"`
	ClientID    int64  `json:"client_id" binding:"required,gt=0"`
}

type reclamationStatutRequest struct {
	Statut string `json:"statut" binding:"required"`
}

type reclamationResponse struct {
	ID           int64     `json:"id"`
	Sujet        string    `json:"sujet"`
	Description  string    `json:"description"`
	DateCreation time.Time `json:"date_creation"`
	Statut       string    `json:"statut"`
	ClientID     int64     `json:"client_id"`
}

func toReclamationResponse(r *models.Reclamation) reclamationResponse {
	return reclamationResponse{
		ID:           r.ID,
		Sujet:        r.Sujet,
		Description:  r.Description,
		DateCreation: r.DateCreation,
		Statut:       string(r.Statut),
		ClientID:     r.ClientID,
	}
}

type attachmentRequest struct {
	Filename string `json:"filename" binding:"required,max=256"`
}

type attachmentResponse struct {
	ID            int64     `json:"id"`
	ReclamationID int64     `json:"reclamation_id"`
	Filename      string    `json:"filename"`
	CreatedAt     time.Time `json:"created_at"`
}

func toAttachmentResponse(a *models.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:            a.ID,
		ReclamationID: a.ReclamationID,
		Filename:      a.Filename,
		CreatedAt:     a.CreatedAt,
	}
}

func (s *Server) createReclamation(c *gin.Context) {
	var req reclamationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r := &models.Reclamation{Sujet: req.Sujet, Description: req.Description, ClientID: req.ClientID}
	r, err := s.reclamations.Create(c.Request.Context(), r)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toReclamationResponse(r))
}

func (s *Server) listReclamations(c *gin.Context) {
	skip, limit := pagination(c)
	list, err := s.reclamations.List(c.Request.Context(), skip, limit)
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

func (s *Server) getReclamation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := s.reclamations.GetByID(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReclamationResponse(r))
}

func (s *Server) updateReclamationStatut(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req reclamationStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statut, valid := models.ParseStatutReclamation(req.Statut)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid statut"})
		return
	}

	r, err := s.reclamations.UpdateStatut(c.Request.Context(), id, statut)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReclamationResponse(r))
}

func (s *Server) deleteReclamation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.reclamations.Delete(c.Request.Context(), id); err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req attachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	up, err := s.reclamations.CreateAttachment(c.Request.Context(), id, req.Filename)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attachment": toAttachmentResponse(up.Attachment),
		"upload_url": up.UploadURL,
	})
}

func (s *Server) listAttachments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := s.reclamations.ListAttachments(c.Request.Context(), id)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]attachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAttachmentResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) downloadAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachmentID, ok := pathID(c, "attachmentID")
	if !ok {
		return
	}

	url, err := s.reclamations.GetAttachmentDownloadURL(c.Request.Context(), id, attachmentID)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}
