package httpapi

import (
	"net/http"

	"github.com/facturio/facturio/internal/server/models"
	"github.com/gin-gonic/gin"
)

type userActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type userRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (s *Server) listUsers(c *gin.Context) {
	skip, limit := pagination(c)
	list, err := s.users.List(c.Request.Context(), skip, limit)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) setUserActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req userActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.users.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) setUserRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req userRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, valid := models.ParseRole(req.Role)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	user, err := s.users.SetRole(c.Request.Context(), id, role)
	if err != nil {
		s.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
