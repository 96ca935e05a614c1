package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

func (a *API) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// non-browser clients
				return true
			}
			for _, allowed := range a.d.AllowedOrigins {
				if allowed == "*" || origin == allowed {
					return true
				}
			}
			logger.Warnf("websocket origin rejected: %s", origin)
			return false
		},
	}
}

// subscribable reports whether u may receive invalidations for topic.
// Candidates only see their own interview list.
func subscribable(u *models.User, topic string) bool {
	const candidatePrefix = "interviews:candidate:"
	switch {
	case u.IsInterviewer():
		return true
	case topic == realtime.TopicInterviews:
		return false
	case strings.HasPrefix(topic, candidatePrefix):
		return strings.TrimPrefix(topic, candidatePrefix) == u.Identity
	}
	return true
}

// Subscribe upgrades to a websocket that receives invalidation events for
// the topics named in ?topics=a,b.
func (a *API) Subscribe(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	if a.d.Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime is disabled"})
		return
	}
	var topics []string
	for _, t := range strings.Split(c.Query("topics"), ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !subscribable(u, t) {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot subscribe to " + t})
			return
		}
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topics query parameter is required"})
		return
	}

	up := a.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logger.Warnf("websocket upgrade failed: %v", err)
		return
	}
	client := realtime.NewClient(conn, a.d.Hub, u.Identity, topics)
	a.d.Hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

// VideoToken issues a provider token for the caller.
func (a *API) VideoToken(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	tok, err := a.d.Video.UserToken(u.Identity)
	if err != nil {
		logger.Errorf("video token for %s: %v", u.Identity, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue video token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok, "apiKey": a.d.VideoAPIKey, "userId": u.Identity})
}
