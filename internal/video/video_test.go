package video

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blesswrld/codesync/backend/go-services/internal/config"
)

const testSecret = "video-secret-for-tests-0123456789"

func newTestProvider(url string) *HTTPProvider {
	p := NewHTTPProvider(config.VideoConfig{
		BaseURL:       url,
		APIKey:        "key-1",
		APISecret:     testSecret,
		CallType:      "default",
		Timeout:       2 * time.Second,
		RetryAttempts: 3,
		UserTokenTTL:  time.Hour,
	})
	p.retry.InitialBackoff = time.Millisecond
	return p
}

func TestHTTPProvider_CreateCall(t *testing.T) {
	var got callRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video/call/default/call-1", r.URL.Path)
		assert.Equal(t, "key-1", r.URL.Query().Get("api_key"))
		assert.Equal(t, "jwt", r.Header.Get("Stream-Auth-Type"))
		_, err := jwt.Parse(r.Header.Get("Authorization"), func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		assert.NoError(t, err)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	err := p.CreateCall(context.Background(), "call-1", CallDetails{CreatedBy: "user_I", Title: "Backend", Members: []string{"user_C"}})
	require.NoError(t, err)
	assert.Equal(t, "user_I", got.Data.CreatedByID)
	assert.Equal(t, "Backend", got.Data.Custom["title"])
	require.Len(t, got.Data.Members, 1)
	assert.Equal(t, "user_C", got.Data.Members[0].UserID)
}

func TestHTTPProvider_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	require.NoError(t, p.DeleteCall(context.Background(), "call-1"))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestHTTPProvider_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad call type", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	err := p.CreateCall(context.Background(), "call-1", CallDetails{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetry_GivesUp(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := retry(context.Background(), RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond, BackoffMultiplier: 2}, "op", func(context.Context) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, DefaultRetryConfig(), "op", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffCapped(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffMultiplier: 2}
	assert.Equal(t, time.Second, backoffFor(0, cfg))
	assert.Equal(t, 2*time.Second, backoffFor(1, cfg))
	assert.Equal(t, 3*time.Second, backoffFor(5, cfg))
}

func TestNoopProvider(t *testing.T) {
	p := NoopProvider{}
	assert.NoError(t, p.CreateCall(context.Background(), "c", CallDetails{}))
	assert.NoError(t, p.DeleteCall(context.Background(), "c"))
	tok, err := p.UserToken("user_A")
	require.NoError(t, err)
	assert.Equal(t, "dev-token-user_A", tok)

	signed := NoopProvider{Secret: testSecret, TTL: time.Minute}
	tok, err = signed.UserToken("user_A")
	require.NoError(t, err)
	assert.NotEqual(t, "dev-token-user_A", tok)
}
