package auth

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("ab"),
		[]byte("abc"),
		[]byte("abcd"),
		[]byte(`{"alg":"HS256","typ":"JWT"}`),
		[]byte("héllo wörld ✓ 已审核"),
		{0x00, 0x01, 0xfe, 0xff, 0x7f, 0x80},
	}
	for _, b := range cases {
		got, err := Decode(Encode(b))
		if err != nil {
			t.Fatalf("decode %q: %v", b, err)
		}
		if !bytes.Equal(got, b) {
			t.Fatalf("round trip %q: got %q", b, got)
		}
	}
}

func TestDecodeAcceptsPaddedInput(t *testing.T) {
	raw := []byte("padded input survives")
	s := Encode(raw)
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	got, err := Decode(s)
	if err != nil {
		t.Fatalf("decode padded: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("padded round trip: got %q", got)
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"!!!", "ab cd", "a"} {
		if _, err := Decode(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
