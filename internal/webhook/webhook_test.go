package webhook

import (
	"context"
	"encoding/base64"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/users"
)

var testSecret = "whsec_" + base64.StdEncoding.EncodeToString([]byte("super-secret-signing-key"))

func signedHeaders(t *testing.T, v *Verifier, ts time.Time, body []byte) http.Header {
	t.Helper()
	h := http.Header{}
	h.Set(HeaderID, "msg_1")
	h.Set(HeaderTimestamp, strconv.FormatInt(ts.Unix(), 10))
	h.Set(HeaderSignature, v.Sign("msg_1", ts, body))
	return h
}

func TestVerify(t *testing.T) {
	v, err := NewVerifier(testSecret, 5*time.Minute)
	require.NoError(t, err)
	body := []byte(`{"type":"user.deleted","data":{"id":"user_A"}}`)
	now := time.Now()

	h := signedHeaders(t, v, now, body)
	assert.NoError(t, v.Verify(h, body))

	// a rotated key signature listed first does not prevent a match
	h.Set(HeaderSignature, "v1,AAAA "+h.Get(HeaderSignature))
	assert.NoError(t, v.Verify(h, body))

	assert.ErrorIs(t, v.Verify(h, []byte(`{"tampered":true}`)), ErrInvalidSignature)

	stale := signedHeaders(t, v, now.Add(-time.Hour), body)
	assert.ErrorIs(t, v.Verify(stale, body), ErrStaleTimestamp)

	assert.ErrorIs(t, v.Verify(http.Header{}, body), ErrMissingHeaders)
}

func TestNewVerifier_RejectsBadSecret(t *testing.T) {
	_, err := NewVerifier("", time.Minute)
	assert.Error(t, err)
	_, err = NewVerifier("whsec_%%%", time.Minute)
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	body := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_A",
			"first_name": "Ann",
			"last_name": "Lee",
			"image_url": "https://img/a.png",
			"primary_email_address_id": "e2",
			"email_addresses": [
				{"id": "e1", "email_address": "old@x.io"},
				{"id": "e2", "email_address": "ann@x.io"}
			],
			"public_metadata": {"role": "interviewer"}
		}
	}`)
	ev, err := Parse(body)
	require.NoError(t, err)
	in := ev.Data.SyncInput()
	assert.Equal(t, "user_A", in.Identity)
	assert.Equal(t, "ann@x.io", in.Email)
	assert.Equal(t, "Ann Lee", in.Name)
	require.NotNil(t, in.Image)
	require.NotNil(t, in.Role)
	assert.Equal(t, models.RoleInterviewer, *in.Role)

	_, err = Parse([]byte(`{"type":"user.created","data":{}}`))
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = Parse([]byte(`not json`))
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUpdate_OnlyPresentFields(t *testing.T) {
	ev, err := Parse([]byte(`{"type":"user.updated","data":{"id":"user_A","image_url":"https://img/new.png"}}`))
	require.NoError(t, err)
	u := ev.Data.Update()
	assert.Nil(t, u.Name)
	assert.Nil(t, u.Email)
	require.NotNil(t, u.Image)
	assert.Equal(t, "https://img/new.png", *u.Image)
}

func TestProcessor_DispatchesToUserService(t *testing.T) {
	svc := users.NewService(users.NewMemoryRepo(), nil)
	p := NewProcessor(svc)
	ctx := context.Background()

	created, _ := Parse([]byte(`{"type":"user.created","data":{"id":"user_A","first_name":"Ann","email_addresses":[{"id":"e","email_address":"a@x.io"}]}}`))
	require.NoError(t, p.Handle(ctx, created))
	u, _ := svc.FindByIdentity(ctx, "user_A")
	require.NotNil(t, u)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, models.RoleCandidate, u.Role)

	updated, _ := Parse([]byte(`{"type":"user.updated","data":{"id":"user_A","first_name":"Annie"}}`))
	require.NoError(t, p.Handle(ctx, updated))
	u, _ = svc.FindByIdentity(ctx, "user_A")
	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, "a@x.io", u.Email)

	deleted, _ := Parse([]byte(`{"type":"user.deleted","data":{"id":"user_A"}}`))
	require.NoError(t, p.Handle(ctx, deleted))
	u, _ = svc.FindByIdentity(ctx, "user_A")
	assert.Nil(t, u)

	other, _ := Parse([]byte(`{"type":"session.created","data":{"id":"sess_1"}}`))
	assert.NoError(t, p.Handle(ctx, other))
}
