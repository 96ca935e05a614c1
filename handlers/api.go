package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blesswrld/codesync/backend/go-services/internal/comments"
	"github.com/blesswrld/codesync/backend/go-services/internal/interviews"
	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/internal/scheduling"
	"github.com/blesswrld/codesync/backend/go-services/internal/storage"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/internal/video"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

// VersionReader exposes query topic versions for ETags.
type VersionReader interface {
	Version(ctx context.Context, topic string) (int64, error)
}

// Deps are the services behind the HTTP API. Recordings may be nil when no
// object storage is configured.
type Deps struct {
	Users          *users.Service
	Interviews     *interviews.Service
	Comments       *comments.Service
	Scheduler      *scheduling.Scheduler
	Video          video.Provider
	VideoAPIKey    string
	Recordings     *storage.RecordingStore
	Versions       VersionReader
	Hub            *realtime.Hub
	AllowedOrigins []string
	Now            func() time.Time
}

// API serves the query and mutation endpoints under /api/v1.
type API struct {
	d Deps
}

func NewAPI(d Deps) *API {
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	return &API{d: d}
}

// Register mounts the API. auth must authenticate the caller and set the
// identity on the context.
func (a *API) Register(r *gin.Engine, auth gin.HandlerFunc, extra ...gin.HandlerFunc) {
	api := r.Group("/api/v1", append([]gin.HandlerFunc{auth}, extra...)...)

	// queries
	api.GET("/users", a.ListUsers)
	api.GET("/users/:identity", a.GetUser)
	api.GET("/me", a.Me)
	api.GET("/interviews", a.requireInterviewer, a.ListInterviews)
	api.GET("/interviews/mine", a.MyInterviews)
	api.GET("/interviews/grouped", a.GroupedInterviews)
	api.GET("/interviews/by-call/:callRef", a.GetInterviewByCall)
	api.GET("/interviews/:id", a.GetInterview)
	api.GET("/interviews/:id/comments", a.ListComments)
	api.GET("/interviews/:id/recordings", a.ListRecordings)

	// mutations
	api.POST("/users/sync", a.SyncUser)
	api.POST("/interviews", a.ScheduleInterview)
	api.PATCH("/interviews/:id/status", a.requireInterviewer, a.UpdateStatus)
	api.POST("/interviews/:id/comments", a.AddComment)
	api.POST("/video/token", a.VideoToken)

	r.GET("/ws", auth, a.Subscribe)
}

// caller loads the authenticated user. Callers that never synced get 403.
func (a *API) caller(c *gin.Context) (*models.User, bool) {
	if v, ok := c.Get("user"); ok {
		return v.(*models.User), true
	}
	identity := middleware.Identity(c)
	u, err := a.d.Users.FindByIdentity(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if u == nil {
		respondError(c, fmt.Errorf("user %s is not registered, sync first: %w", identity, models.ErrForbidden))
		return nil, false
	}
	c.Set("user", u)
	return u, true
}

func (a *API) requireInterviewer(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	if !u.IsInterviewer() {
		respondError(c, fmt.Errorf("interviewers only: %w", models.ErrForbidden))
		return
	}
	c.Next()
}

// canView reports whether u may read iv and its comments and recordings.
func canView(u *models.User, iv *models.Interview) bool {
	return u.IsInterviewer() || iv.CandidateID == u.Identity || iv.HasInterviewer(u.Identity)
}

// notModified sets an ETag built from the versions of every topic the
// response depends on and reports whether the client's If-None-Match already
// matches it, in which case 304 has been written.
func (a *API) notModified(c *gin.Context, topics ...string) bool {
	if a.d.Versions == nil {
		return false
	}
	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		v, err := a.d.Versions.Version(c.Request.Context(), topic)
		if err != nil {
			logger.Warnf("etag: version of %s: %v", topic, err)
			return false
		}
		parts = append(parts, fmt.Sprintf("%s:%d", topic, v))
	}
	etag := `"` + strings.Join(parts, "+") + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	for _, candidate := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		if strings.TrimSpace(candidate) == etag {
			c.Status(http.StatusNotModified)
			c.Abort()
			return true
		}
	}
	return false
}
