package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/internal/scheduling"
	"github.com/blesswrld/codesync/backend/go-services/internal/status"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/pkg/middleware"
)

// InterviewView is an interview with its derived display fields and
// resolved participants.
type InterviewView struct {
	*models.Interview
	DisplayState     status.DisplayState `json:"displayState"`
	CanRecordOutcome bool                `json:"canRecordOutcome"`
	Candidate        users.Participant   `json:"candidate"`
	Interviewers     []users.Participant `json:"interviewers"`
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

func (a *API) view(iv *models.Interview, dir map[string]*models.User, now time.Time) InterviewView {
	v := InterviewView{
		Interview:        iv,
		DisplayState:     status.MeetingDisplayState(iv, now),
		CanRecordOutcome: status.CanRecordOutcome(iv),
		Candidate:        users.CandidateInfo(dir, iv.CandidateID),
		Interviewers:     make([]users.Participant, 0, len(iv.InterviewerIDs)),
	}
	for _, id := range iv.InterviewerIDs {
		v.Interviewers = append(v.Interviewers, users.ParticipantInfo(dir, id))
	}
	return v
}

func (a *API) directory(c *gin.Context) (map[string]*models.User, bool) {
	all, err := a.d.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return users.Directory(all), true
}

func (a *API) ListInterviews(c *gin.Context) {
	if a.notModified(c, realtime.TopicInterviews) {
		return
	}
	list, err := a.d.Interviews.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": list})
}

func (a *API) MyInterviews(c *gin.Context) {
	identity := middleware.Identity(c)
	if a.notModified(c, realtime.CandidateInterviewsTopic(identity)) {
		return
	}
	list, err := a.d.Interviews.ListForCandidate(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": list})
}

// GroupedInterviews buckets the interviews visible to the caller. The
// result depends on the clock, so it carries no ETag.
func (a *API) GroupedInterviews(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var (
		list []*models.Interview
		err  error
	)
	if u.IsInterviewer() {
		list, err = a.d.Interviews.ListAll(ctx)
	} else {
		list, err = a.d.Interviews.ListForCandidate(ctx, u.Identity)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	now := a.d.Now()
	states := make(map[string]status.DisplayState, len(list))
	for _, iv := range list {
		states[iv.ID] = status.MeetingDisplayState(iv, now)
	}
	c.JSON(http.StatusOK, gin.H{
		"groups": status.GroupInterviews(list, now),
		"states": states,
		"now":    now,
	})
}

// GetInterview carries no ETag: the display state moves with the clock.
func (a *API) GetInterview(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	iv, err := a.d.Interviews.Get(c.Request.Context(), c.Param("id"))
	a.respondInterview(c, u, iv, err)
}

func (a *API) GetInterviewByCall(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	iv, err := a.d.Interviews.GetByCallRef(c.Request.Context(), c.Param("callRef"))
	a.respondInterview(c, u, iv, err)
}

// respondInterview answers absence with a null interview rather than 404.
func (a *API) respondInterview(c *gin.Context, u *models.User, iv *models.Interview, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if iv == nil {
		c.JSON(http.StatusOK, gin.H{"interview": nil})
		return
	}
	if !canView(u, iv) {
		respondError(c, fmt.Errorf("interview %s: %w", iv.ID, models.ErrForbidden))
		return
	}
	dir, ok := a.directory(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": a.view(iv, dir, a.d.Now())})
}

func (a *API) ScheduleInterview(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	var req scheduling.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, err := a.d.Scheduler.Schedule(c.Request.Context(), u, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interview": iv})
}

func (a *API) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iv, err := a.d.Interviews.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interview": iv})
}

func (a *API) ListRecordings(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	iv, ok := a.visibleInterview(c, u, c.Param("id"))
	if !ok {
		return
	}
	if a.d.Recordings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recording storage is not configured"})
		return
	}
	recs, err := a.d.Recordings.ListRecordings(c.Request.Context(), iv.CallRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": recs})
}

// visibleInterview loads an interview the caller may access; a missing
// interview is 404 here since the route addresses a sub-resource.
func (a *API) visibleInterview(c *gin.Context, u *models.User, id string) (*models.Interview, bool) {
	iv, err := a.d.Interviews.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if iv == nil {
		respondError(c, fmt.Errorf("interview %s: %w", id, models.ErrNotFound))
		return nil, false
	}
	if !canView(u, iv) {
		respondError(c, fmt.Errorf("interview %s: %w", id, models.ErrForbidden))
		return nil, false
	}
	return iv, true
}
