package auth

import (
	"context"
	"net/http"
	"time"
)

// RoleResult is the outcome of a delegated role-membership check. Role
// failure is a value, never an error: callers must treat an unverified
// result identically to "not authorized".
type RoleResult struct {
	Verified bool   `json:"verified"`
	Error    string `json:"error,omitempty"`
}

// RoleChecker asks an external authority whether a user currently holds
// the required role. Implementations fail closed on any transport or
// configuration problem.
type RoleChecker interface {
	Verify(ctx context.Context, userID string) RoleResult
}

// Principal is the verified request-scoped identity exposed to protected
// handlers. Constructed per request; never persisted.
type Principal struct {
	Claims   Claims
	Source   Source
	Verified bool
}

// Guard composes extraction, verification and the optional role re-check
// for protected endpoints. It holds no mutable cross-request state.
type Guard struct {
	Key   []byte
	Roles RoleChecker
	Now   func() time.Time // defaults to time.Now
}

// Authenticate runs the extractor and verifier. Returns ErrNoToken when
// no credential is presented, otherwise the verifier's typed error.
func (g *Guard) Authenticate(r *http.Request) (*Principal, error) {
	tok, src := FromRequest(r)
	if tok == "" {
		return nil, ErrNoToken
	}
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	c, err := VerifyHS256(tok, g.Key, now)
	if err != nil {
		return nil, err
	}
	return &Principal{Claims: *c, Source: src}, nil
}

// CheckRole runs the delegate for p and records the outcome on the
// principal. A nil checker is treated as an unverifiable configuration,
// not as authorized.
func (g *Guard) CheckRole(ctx context.Context, p *Principal) RoleResult {
	if g.Roles == nil {
		p.Verified = false
		return RoleResult{Verified: false, Error: "role authority not configured"}
	}
	res := g.Roles.Verify(ctx, p.Claims.UserID)
	p.Verified = res.Verified
	return res
}

type principalKey struct{}

// WithPrincipal attaches p to ctx for downstream handlers.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached by the guard, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}
