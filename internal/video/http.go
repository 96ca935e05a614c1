package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blesswrld/codesync/backend/go-services/internal/config"
	"github.com/blesswrld/codesync/backend/go-services/internal/tokens"
)

// HTTPProvider calls the provider's REST API authenticated by a server token.
type HTTPProvider struct {
	baseURL  string
	apiKey   string
	secret   string
	callType string
	tokenTTL time.Duration
	client   *http.Client
	retry    RetryConfig
}

func NewHTTPProvider(cfg config.VideoConfig) *HTTPProvider {
	rc := DefaultRetryConfig()
	if cfg.RetryAttempts > 0 {
		rc.MaxAttempts = cfg.RetryAttempts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	callType := cfg.CallType
	if callType == "" {
		callType = "default"
	}
	return &HTTPProvider{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		secret:   cfg.APISecret,
		callType: callType,
		tokenTTL: cfg.UserTokenTTL,
		client:   &http.Client{Timeout: timeout},
		retry:    rc,
	}
}

type callRequest struct {
	Data callData `json:"data"`
}

type callData struct {
	CreatedByID string            `json:"created_by_id"`
	StartsAt    string            `json:"starts_at,omitempty"`
	Members     []callMember      `json:"members,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

type callMember struct {
	UserID string `json:"user_id"`
}

func (p *HTTPProvider) CreateCall(ctx context.Context, callRef string, d CallDetails) error {
	body := callRequest{Data: callData{
		CreatedByID: d.CreatedBy,
		Custom:      map[string]string{"title": d.Title, "description": d.Description},
	}}
	if !d.StartsAt.IsZero() {
		body.Data.StartsAt = d.StartsAt.UTC().Format(time.RFC3339)
	}
	for _, m := range d.Members {
		body.Data.Members = append(body.Data.Members, callMember{UserID: m})
	}
	return retry(ctx, p.retry, "create call "+callRef, func(ctx context.Context) error {
		return p.post(ctx, p.callPath(callRef), body)
	})
}

func (p *HTTPProvider) DeleteCall(ctx context.Context, callRef string) error {
	return retry(ctx, p.retry, "delete call "+callRef, func(ctx context.Context) error {
		return p.post(ctx, p.callPath(callRef)+"/delete", map[string]bool{"hard": true})
	})
}

func (p *HTTPProvider) UserToken(identity string) (string, error) {
	return tokens.UserToken(p.secret, identity, p.tokenTTL)
}

func (p *HTTPProvider) callPath(callRef string) string {
	return "/video/call/" + url.PathEscape(p.callType) + "/" + url.PathEscape(callRef)
}

// post sends one request. Client errors are permanent; transport errors,
// 429 and 5xx are retried.
func (p *HTTPProvider) post(ctx context.Context, path string, payload interface{}) error {
	tok, err := tokens.ServerToken(p.secret)
	if err != nil {
		return permanent(err)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return permanent(err)
	}
	u := p.baseURL + path + "?api_key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tok)
	req.Header.Set("Stream-Auth-Type", "jwt")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("video provider %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return err
	}
	return permanent(err)
}
