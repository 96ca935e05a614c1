package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

// SyncUserRequest is the session-start self registration body. The
// identity always comes from the verified token. Roles are only assigned
// through identity-provider metadata, so none is accepted here.
type SyncUserRequest struct {
	Email string  `json:"email" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Image *string `json:"image"`
}

func (a *API) ListUsers(c *gin.Context) {
	if a.notModified(c, realtime.TopicUsers) {
		return
	}
	list, err := a.d.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

// GetUser answers absence with a null user rather than 404.
func (a *API) GetUser(c *gin.Context) {
	if a.notModified(c, realtime.TopicUsers) {
		return
	}
	u, err := a.d.Users.FindByIdentity(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Me returns the caller, registering them from token claims on first use.
func (a *API) Me(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := a.d.Users.FindByIdentity(ctx, middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if u == nil {
		u, err = a.d.Users.UpsertFromClaims(ctx, middleware.Claims(c))
		if err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (a *API) SyncUser(c *gin.Context) {
	var req SyncUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := a.d.Users.SyncUser(c.Request.Context(), users.SyncUserInput{
		Identity: middleware.Identity(c),
		Email:    req.Email,
		Name:     req.Name,
		Image:    req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
