package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cardgate/internal/auth"
	"cardgate/internal/config"
	"cardgate/internal/discord"
	"cardgate/internal/metrics"
	"cardgate/internal/version"
)

type Server struct {
	log   *slog.Logger
	cfg   *config.Config
	oauth *discord.Client
	roles auth.RoleChecker
	guard *auth.Guard
}

func New(l *slog.Logger, cfg *config.Config, oauth *discord.Client, roles auth.RoleChecker) *Server {
	return &Server{
		log:   l,
		cfg:   cfg,
		oauth: oauth,
		roles: roles,
		guard: &auth.Guard{Key: cfg.JWTSecret, Roles: roles},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer, s.withAccessLog, instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promHandler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/discord", s.handleLogin)
		r.Get("/discord/callback", s.handleCallback)
		r.Get("/discord/me", s.handleMe)
		r.Get("/me", s.handleMe)
		r.Post("/logout", s.handleLogout)
	})
	return r
}

// RequireAuth wraps a protected handler with extraction and token
// verification only; fn receives the principal with Verified unset.
func (s *Server) RequireAuth(fn func(http.ResponseWriter, *http.Request, *auth.Principal)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		fn(w, r, p)
	}
}

// RequireVerified additionally re-checks role membership on every
// request. Delegate failure is indistinguishable from "not authorized".
func (s *Server) RequireVerified(fn func(http.ResponseWriter, *http.Request, *auth.Principal)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.authenticate(w, r)
		if !ok {
			return
		}
		res := s.guard.CheckRole(r.Context(), p)
		if !res.Verified {
			s.log.Warn("role check rejected",
				slog.String("user_id", p.Claims.UserID),
				slog.String("reason", res.Error))
			s.writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "forbidden"})
			return
		}
		fn(w, r.WithContext(auth.WithPrincipal(r.Context(), p)), p)
	}
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, err := s.guard.Authenticate(r)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoToken):
			metrics.IncTokenVerify("missing")
			s.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "not logged in"})
		case errors.Is(err, auth.ErrExpired):
			metrics.IncTokenVerify("expired")
			s.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "token invalid or expired"})
		default:
			metrics.IncTokenVerify("invalid")
			s.writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "token invalid or expired"})
		}
		return nil, false
	}
	metrics.IncTokenVerify("ok")
	return p, true
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    any    `json:"user,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Service   string `json:"service"`
		Version   string `json:"version"`
		Build     string `json:"gitCommit"`
		BuildDate string `json:"buildDate"`
	}{"cardgate", version.Version, version.Build, version.BuildDate})
}

// recoverer ensures handler panics don't crash the server; returns 500 and logs nothing sensitive
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withAccessLog logs method, path, status code and duration for every request
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: 200}
		start := time.Now()
		next.ServeHTTP(sw, r)
		s.log.Info("http",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.code),
			slog.String("remote", r.RemoteAddr),
			slog.String("duration", time.Since(start).String()))
	})
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}
