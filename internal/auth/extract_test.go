package auth

import (
	"net/http/httptest"
	"testing"
)

func TestExtractHeaderWinsOverCookie(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.Header.Set("Cookie", "auth_token=cookie-token")

	tok, src := FromRequest(r)
	if tok != "header-token" || src != SourceHeader {
		t.Fatalf("got %q from %v, want header-token from header", tok, src)
	}
}

func TestExtractFromCookie(t *testing.T) {
	cases := []struct {
		name   string
		cookie string
		want   string
	}{
		{"plain", "auth_token=tok.en.sig", "tok.en.sig"},
		{"percent encoded", "auth_token=tok%2Een%2Esig", "tok.en.sig"},
		{"quoted", `auth_token="tok.en.sig"`, "tok.en.sig"},
		{"double encoded falls back to raw", "auth_token=tok%ZZen", "tok%ZZen"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.Header.Set("Cookie", tc.cookie)
			tok, src := FromRequest(r)
			if tok != tc.want || src != SourceCookie {
				t.Fatalf("got %q from %v, want %q from cookie", tok, src, tc.want)
			}
		})
	}
}

func TestExtractTrimsBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", `Bearer  "padded-token" `)
	tok, _ := FromRequest(r)
	if tok != "padded-token" {
		t.Fatalf("got %q, want padded-token", tok)
	}
}

func TestExtractNoCredential(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	tok, src := FromRequest(r)
	if tok != "" || src != SourceNone {
		t.Fatalf("expected no credential, got %q from %v", tok, src)
	}
}
