// Package discord implements the OAuth2 code exchange against the
// Discord API: authorization redirect, code-for-token exchange, and the
// identity fetch that feeds session token issuance.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardgate/internal/auth"
	"cardgate/internal/metrics"
)

const DefaultAPIBase = "https://discord.com/api"

var (
	ErrTokenExchange = errors.New("token exchange failed")
	ErrIdentityFetch = errors.New("identity fetch failed")
)

type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIBase      string // override for tests
	HTTP         *http.Client
}

func New(clientID, clientSecret, redirectURI string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
		HTTP:         &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) apiBase() string {
	if c.APIBase != "" {
		return c.APIBase
	}
	return DefaultAPIBase
}

func (c *Client) httpc() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// AuthorizeURL builds the provider consent URL the login endpoint
// redirects the browser to.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.ClientID)
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "identify guilds")
	q.Set("state", state)
	return c.apiBase() + "/oauth2/authorize?" + q.Encode()
}

// ExchangeCode trades an authorization code for a provider access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase()+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpc().Do(req)
	metrics.ObserveUpstream("token_exchange", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrTokenExchange, resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", ErrTokenExchange)
	}
	return body.AccessToken, nil
}

// FetchIdentity retrieves the caller's user object with the access token.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase()+"/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	start := time.Now()
	resp, err := c.httpc().Do(req)
	metrics.ObserveUpstream("identity", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrIdentityFetch, resp.StatusCode)
	}
	var id auth.Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityFetch, err)
	}
	return &id, nil
}

// Login runs the full exchange: code -> access token -> identity.
func (c *Client) Login(ctx context.Context, code string) (*auth.Identity, error) {
	tok, err := c.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return c.FetchIdentity(ctx, tok)
}
