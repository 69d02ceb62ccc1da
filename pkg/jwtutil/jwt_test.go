package jwtutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestUtil() *JWTUtil {
	return New(&Config{SigningKey: "test-signing-key", ExpirationHours: 168})
}

func TestGenerateAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestUtil()

	tok, err := j.Generate(7, "admin@acme.test", "admin", 3, "acme", "free")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	claims, err := j.Validate(tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if claims.Sub != 7 {
		t.Errorf("sub mismatch: got %d want 7", claims.Sub)
	}
	if claims.Email != "admin@acme.test" {
		t.Errorf("email mismatch: got %q", claims.Email)
	}
	if claims.Role != "admin" {
		t.Errorf("role mismatch: got %q", claims.Role)
	}
	if claims.TenantID != 3 {
		t.Errorf("tenantId mismatch: got %d want 3", claims.TenantID)
	}
	if claims.TenantSlug != "acme" {
		t.Errorf("tenantSlug mismatch: got %q", claims.TenantSlug)
	}
	if claims.Plan != "free" {
		t.Errorf("plan mismatch: got %q", claims.Plan)
	}
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	j := newTestUtil()

	tok, err := j.GenerateWithLifetime(1, "user@acme.test", "member", 3, "acme", "free", -1*time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithLifetime error: %v", err)
	}

	_, err = j.Validate(tok)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Kind != DecodeExpired {
		t.Fatalf("expected kind %q, got %q", DecodeExpired, decodeErr.Kind)
	}
}

func TestValidate_TamperedSignature(t *testing.T) {
	t.Parallel()

	j := newTestUtil()

	tok, err := j.Generate(1, "user@acme.test", "member", 3, "acme", "free")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d segments", len(parts))
	}

	// Flip one character of the signature segment.
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = j.Validate(tampered)
	if err == nil {
		t.Fatal("expected error for tampered signature, got nil")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Kind != DecodeBadSignature {
		t.Fatalf("expected kind %q, got %q", DecodeBadSignature, decodeErr.Kind)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newTestUtil().Generate(1, "user@acme.test", "member", 3, "acme", "free")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	other := New(&Config{SigningKey: "a-different-key", ExpirationHours: 168})
	_, err = other.Validate(tok)
	if err == nil {
		t.Fatal("expected error for wrong secret, got nil")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Kind != DecodeBadSignature {
		t.Fatalf("expected kind %q, got %q", DecodeBadSignature, decodeErr.Kind)
	}
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	j := newTestUtil()

	for _, tok := range []string{"", "garbage", "not.a.jwt", "a.b"} {
		_, err := j.Validate(tok)
		if err == nil {
			t.Fatalf("expected error for malformed token %q, got nil", tok)
		}

		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected *DecodeError for %q, got %T", tok, err)
		}
		if decodeErr.Kind != DecodeMalformed {
			t.Fatalf("expected kind %q for %q, got %q", DecodeMalformed, tok, decodeErr.Kind)
		}
	}
}

func TestValidate_RejectsUnsignedAlg(t *testing.T) {
	t.Parallel()

	// A token with alg "none" must never verify, whatever its payload says.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJzdWIiOjEsInRlbmFudElkIjozfQ."

	_, err := newTestUtil().Validate(unsigned)
	if err == nil {
		t.Fatal("expected error for alg=none token, got nil")
	}
}
