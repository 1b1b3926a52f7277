package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

type stubChecker struct {
	res   RoleResult
	calls int
}

func (s *stubChecker) Verify(context.Context, string) RoleResult {
	s.calls++
	return s.res
}

func TestGuardAuthenticate(t *testing.T) {
	key := testKey(t)
	g := &Guard{Key: key}
	tok, err := Issue(alice, time.Now(), key)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Cookie", CookieName+"="+tok)
	p, err := g.Authenticate(r)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Claims.UserID != "42" || p.Source != SourceCookie {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if p.Verified {
		t.Fatalf("verified must default to false")
	}
}

func TestGuardRejectsMissingToken(t *testing.T) {
	g := &Guard{Key: testKey(t)}
	if _, err := g.Authenticate(httptest.NewRequest("GET", "/", nil)); !errors.Is(err, ErrNoToken) {
		t.Fatalf("got %v, want ErrNoToken", err)
	}
}

func TestGuardCheckRoleFailsClosedWithoutChecker(t *testing.T) {
	g := &Guard{Key: testKey(t)}
	p := &Principal{Claims: Claims{UserID: "42"}}
	res := g.CheckRole(context.Background(), p)
	if res.Verified || p.Verified {
		t.Fatalf("nil checker must not verify")
	}
	if res.Error == "" {
		t.Fatalf("expected a diagnostic reason")
	}
}

func TestGuardCheckRoleRecordsOutcome(t *testing.T) {
	chk := &stubChecker{res: RoleResult{Verified: true}}
	g := &Guard{Key: testKey(t), Roles: chk}
	p := &Principal{Claims: Claims{UserID: "42"}}
	if res := g.CheckRole(context.Background(), p); !res.Verified || !p.Verified {
		t.Fatalf("expected verified principal")
	}
	if chk.calls != 1 {
		t.Fatalf("expected one delegate call, got %d", chk.calls)
	}
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	p := &Principal{Claims: Claims{UserID: "42"}}
	ctx := WithPrincipal(context.Background(), p)
	got, ok := PrincipalFrom(ctx)
	if !ok || got != p {
		t.Fatalf("principal lost in context")
	}
	if _, ok := PrincipalFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry a principal")
	}
}
