package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/internal/webhook"
)

func TestWebhookHandler(t *testing.T) {
	v, err := webhook.NewVerifier("plain-test-secret", 5*time.Minute)
	require.NoError(t, err)
	svc := users.NewService(users.NewMemoryRepo(), nil)
	r := gin.New()
	NewWebhookHandler(v, webhook.NewProcessor(svc)).Register(r)

	send := func(body string, sign bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/identity", bytes.NewBufferString(body))
		now := time.Now()
		req.Header.Set(webhook.HeaderID, "msg_42")
		req.Header.Set(webhook.HeaderTimestamp, strconv.FormatInt(now.Unix(), 10))
		if sign {
			req.Header.Set(webhook.HeaderSignature, v.Sign("msg_42", now, []byte(body)))
		} else {
			req.Header.Set(webhook.HeaderSignature, "v1,bm9wZQ==")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	created := `{"type":"user.created","data":{"id":"user_W","first_name":"Web","last_name":"Hook","email_addresses":[{"id":"e1","email_address":"w@x.io"}],"primary_email_address_id":"e1"}}`
	w := send(created, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	u, _ := svc.FindByIdentity(context.Background(), "user_W")
	assert.Nil(t, u)

	w = send(created, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	u, _ = svc.FindByIdentity(context.Background(), "user_W")
	require.NotNil(t, u)
	assert.Equal(t, "Web Hook", u.Name)

	w = send(`{"type":"user.updated","data":{"id":"user_new"}}`, true)
	require.Equal(t, http.StatusOK, w.Code)
	u, _ = svc.FindByIdentity(context.Background(), "user_new")
	require.NotNil(t, u)
	assert.Equal(t, users.PlaceholderName, u.Name)

	w = send(`{"type":"user.deleted","data":{}}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
