package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Lifetime is the fixed validity window of every issued session token.
const Lifetime = 7 * 24 * time.Hour

var (
	ErrNoToken      = errors.New("no credential presented")
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("token signature mismatch")
	ErrExpired      = errors.New("token expired")
)

// Identity is the user object fetched from the OAuth provider at login
// time. It is immutable input to token issuance and never re-fetched
// implicitly.
type Identity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	GlobalName    string `json:"global_name"`
}

// Claims is the signed token payload. A Claims value is only trusted
// after signature and expiry verification succeed.
type Claims struct {
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	GlobalName    string `json:"globalName"`
	Iat           int64  `json:"iat,omitempty"`
	Exp           int64  `json:"exp,omitempty"`
}

// Issue builds Claims for id with a fixed 7-day lifetime and returns the
// compact signed token. Pure computation; never touches storage.
func Issue(id Identity, now time.Time, key []byte) (string, error) {
	c := &Claims{
		UserID:        id.ID,
		Username:      id.Username,
		Discriminator: id.Discriminator,
		Avatar:        id.Avatar,
		GlobalName:    id.GlobalName,
		Iat:           now.Unix(),
		Exp:           now.Add(Lifetime).Unix(),
	}
	return SignHS256(c, key)
}

// SignHS256 produces header.payload.signature with an HMAC-SHA-256 MAC
// over the first two segments.
func SignHS256(c *Claims, key []byte) (string, error) {
	header := Encode([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadBytes, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	payload := Encode(payloadBytes)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(header + "." + payload))
	sig := mac.Sum(nil)
	return header + "." + payload + "." + Encode(sig), nil
}

// VerifyHS256 checks structure, signature, then expiry, in that order.
// The payload is parsed only after the MAC matches, so a tampered token
// surfaces as ErrBadSignature rather than a parse failure.
func VerifyHS256(token string, key []byte, now time.Time) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	sig, err := Decode(parts[2])
	if err != nil {
		return nil, ErrBadSignature
	}
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrBadSignature
	}
	payload, err := Decode(parts[1])
	if err != nil {
		return nil, ErrMalformed
	}
	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, ErrMalformed
	}
	// Exp of zero means the token carries no expiry and never expires.
	// Our issuer always sets Exp; this mirrors tokens from foreign
	// issuers holding the same secret.
	if c.Exp != 0 && now.Unix() > c.Exp {
		return nil, ErrExpired
	}
	return &c, nil
}
