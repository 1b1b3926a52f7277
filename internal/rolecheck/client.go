// Package rolecheck delegates role-membership verification to the guild
// bot service. The client fails closed: any transport failure, timeout,
// non-success status or missing configuration reads as "not verified".
package rolecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cardgate/internal/auth"
	"cardgate/internal/metrics"
)

type Client struct {
	URL    string // bot service base URL
	Secret string // shared secret, distinct from the token-signing secret
	HTTP   *http.Client
}

func New(url, secret string) *Client {
	return &Client{URL: url, Secret: secret, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) httpc() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Verify asks the bot whether userID is a guild member holding the
// required role. Never returns an error past this boundary.
func (c *Client) Verify(ctx context.Context, userID string) auth.RoleResult {
	if c == nil || c.URL == "" {
		metrics.IncRoleCheck("unconfigured")
		return auth.RoleResult{Verified: false, Error: "role authority not configured"}
	}
	body, _ := json.Marshal(struct {
		UserID string `json:"userId"`
	}{userID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL+"/api/verify-user", bytes.NewReader(body))
	if err != nil {
		metrics.IncRoleCheck("error")
		return auth.RoleResult{Verified: false, Error: "role check failed"}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Secret)

	start := time.Now()
	resp, err := c.httpc().Do(req)
	metrics.ObserveRoleCheck(time.Since(start))
	if err != nil {
		metrics.IncRoleCheck("error")
		return auth.RoleResult{Verified: false, Error: "role authority unreachable"}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncRoleCheck("status")
		return auth.RoleResult{Verified: false, Error: fmt.Sprintf("role authority returned %d", resp.StatusCode)}
	}
	var out auth.RoleResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.IncRoleCheck("error")
		return auth.RoleResult{Verified: false, Error: "invalid role authority response"}
	}
	if out.Verified {
		metrics.IncRoleCheck("verified")
	} else {
		metrics.IncRoleCheck("denied")
	}
	return out
}
