package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/realtime"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
)

type commentRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// CommentView is a comment with its resolved author.
type CommentView struct {
	*models.Comment
	Author users.Participant `json:"author"`
}

func (a *API) ListComments(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, ok := a.visibleInterview(c, u, id); !ok {
		return
	}
	// author names come from the user directory
	if a.notModified(c, realtime.InterviewCommentsTopic(id), realtime.TopicUsers) {
		return
	}
	list, err := a.d.Comments.ListForInterview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	dir, ok := a.directory(c)
	if !ok {
		return
	}
	out := make([]CommentView, 0, len(list))
	for _, cm := range list {
		out = append(out, CommentView{Comment: cm, Author: users.ParticipantInfo(dir, cm.InterviewerID)})
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

func (a *API) AddComment(c *gin.Context) {
	u, ok := a.caller(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, ok := a.visibleInterview(c, u, id); !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, err := a.d.Comments.AddComment(c.Request.Context(), u.Identity, id, req.Content, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": cm})
}
