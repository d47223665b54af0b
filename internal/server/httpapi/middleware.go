package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/gin-gonic/gin"
)

// currentUserKey is the gin context key under which the authenticated user is
// stored.
const currentUserKey = "currentUser"

// identityFromRequest resolves the bearer token into an account. It returns
// ErrorUnauthorized for anything that prevents identification (missing or
// malformed header, invalid or expired token, unknown subject) and
// ErrorUserDisabled once the account is identified but inactive.
func (s *Server) identityFromRequest(c *gin.Context) (*models.User, error) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if header == "" {
		return nil, common.ErrorUnauthorized
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerPrefix) {
		return nil, common.ErrorUnauthorized
	}

	data, err := s.tokens.Validate(parts[1])
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.users.GetByUsername(c.Request.Context(), data.Subject)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorUserDisabled
	}

	return user, nil
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
}

// requireAuth rejects requests without a valid bearer identity.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.identityFromRequest(c)
		if err != nil {
			if errors.Is(err, common.ErrorUserDisabled) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
				return
			}
			abortUnauthorized(c)
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// optionalAuth attaches the identity when a valid token is presented but lets
// anonymous requests through.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := s.identityFromRequest(c); err == nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// requireRole layers a role check on top of requireAuth.
func (s *Server) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.identityFromRequest(c)
		if err != nil {
			if errors.Is(err, common.ErrorUserDisabled) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
				return
			}
			abortUnauthorized(c)
			return
		}
		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the identity attached by the auth middleware, if any.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
