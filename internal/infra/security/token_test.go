package security

import "testing"

func TestGenerateSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(SessionTokenBytes)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}
	second, err := GenerateSecureToken(SessionTokenBytes)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct tokens")
	}

	// 32 random bytes encode to 43 base64 characters without padding.
	if len(first) != 43 {
		t.Fatalf("unexpected token length %d", len(first))
	}

	if _, err := GenerateSecureToken(0); err == nil {
		t.Fatalf("expected error for non-positive byte length")
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	digest := HashToken("abc")
	if digest != HashToken("abc") {
		t.Fatalf("expected stable digests for identical input")
	}
	if digest == HashToken("abd") {
		t.Fatalf("expected distinct digests for distinct input")
	}
	if len(digest) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(digest))
	}
}
