package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardgate/internal/auth"
	"cardgate/internal/discord"
	"cardgate/internal/metrics"
)

// handleLogin starts the OAuth flow with a 302 to the provider consent
// page. The state parameter guards the redirect round trip.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.Redirect(w, r, s.oauth.AuthorizeURL(state), http.StatusFound)
}

// handleCallback drives the exchange to a terminal response: every
// failure path resolves to a redirect carrying a human-readable error,
// never a bare 500.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		metrics.IncLogin("denied")
		s.redirectError(w, r, "Discord authorization failed: "+e)
		return
	}
	code := q.Get("code")
	if code == "" {
		metrics.IncLogin("denied")
		s.redirectError(w, r, "missing authorization code")
		return
	}

	ident, err := s.oauth.Login(r.Context(), code)
	if err != nil {
		metrics.IncLogin("upstream_error")
		s.log.Error("oauth exchange", slog.String("error", err.Error()))
		if errors.Is(err, discord.ErrIdentityFetch) {
			s.redirectError(w, r, "failed to fetch user info")
		} else {
			s.redirectError(w, r, "failed to obtain access token")
		}
		return
	}

	res := s.roles.Verify(r.Context(), ident.ID)
	if !res.Verified {
		metrics.IncLogin("forbidden")
		s.log.Warn("role verification rejected",
			slog.String("user_id", ident.ID),
			slog.String("reason", res.Error))
		msg := res.Error
		if msg == "" {
			msg = "you are not a guild member or lack the required role"
		}
		s.redirectError(w, r, msg)
		return
	}

	tok, err := auth.Issue(*ident, time.Now(), s.cfg.JWTSecret)
	if err != nil {
		metrics.IncLogin("error")
		s.log.Error("token issue", slog.String("error", err.Error()))
		s.redirectError(w, r, "login failed")
		return
	}

	http.SetCookie(w, s.sessionCookie(tok, int(auth.Lifetime.Seconds())))
	metrics.IncLogin("success")
	s.log.Info("login", slog.String("user_id", ident.ID), slog.String("username", ident.Username))
	http.Redirect(w, r, s.cfg.FrontendURL+"/search.html", http.StatusFound)
}

// handleMe verifies the session token and reports the fresh role-check
// result in the user object.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	res := s.guard.CheckRole(r.Context(), p)
	if res.Error != "" {
		s.log.Warn("role check", slog.String("user_id", p.Claims.UserID), slog.String("reason", res.Error))
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, User: struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		Discriminator string `json:"discriminator"`
		Avatar        string `json:"avatar"`
		GlobalName    string `json:"globalName"`
		Verified      bool   `json:"verified"`
	}{p.Claims.UserID, p.Claims.Username, p.Claims.Discriminator, p.Claims.Avatar, p.Claims.GlobalName, p.Verified}})
}

// handleLogout deletes the client-held credential; the token itself
// stays valid until natural expiry.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, s.sessionCookie("", -1))
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "logged out"})
}

func (s *Server) redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, s.cfg.FrontendURL+"/search.html?error="+url.QueryEscape(msg), http.StatusFound)
}

func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(s.cfg.FrontendURL, "https://"),
	}
}
