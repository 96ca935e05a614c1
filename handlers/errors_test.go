package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("rating", "must be between 1 and 5"), http.StatusBadRequest},
		{fmt.Errorf("interview x: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("insert: %w", models.ErrConflict), http.StatusConflict},
		{fmt.Errorf("upcoming -> failed: %w", models.ErrIllegalTransition), http.StatusConflict},
		{fmt.Errorf("interviewers only: %w", models.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: timeout", models.ErrProvider), http.StatusBadGateway},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
		assert.True(t, c.IsAborted())
	}
}
