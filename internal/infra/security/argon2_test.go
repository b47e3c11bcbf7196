package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	if !VerifyPassword("correct horse battery staple", encoded) {
		t.Fatalf("expected stored hash to verify against original password")
	}

	if VerifyPassword("correct horse battery stapl", encoded) {
		t.Fatalf("expected near-miss password to be rejected")
	}
}

func TestHashPasswordSaltUniqueness(t *testing.T) {
	first, err := HashPassword("repeat-me")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("repeat-me")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct encodings for the same password")
	}

	if !VerifyPassword("repeat-me", first) || !VerifyPassword("repeat-me", second) {
		t.Fatalf("expected both encodings to verify")
	}
}

func TestVerifyPasswordMalformedEncodings(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=banana,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA",
	}

	for _, encoded := range cases {
		if VerifyPassword("whatever", encoded) {
			t.Fatalf("expected non-match for encoding %q", encoded)
		}
	}
}

func TestConfigureArgon2RejectsWeakParams(t *testing.T) {
	t.Cleanup(func() {
		if err := ConfigureArgon2(DefaultArgon2Config()); err != nil {
			t.Fatalf("restore config: %v", err)
		}
	})

	weak := DefaultArgon2Config()
	weak.Memory = 1024
	if err := ConfigureArgon2(weak); err == nil {
		t.Fatalf("expected error for undersized memory parameter")
	}

	zeroIter := DefaultArgon2Config()
	zeroIter.Iterations = 0
	if err := ConfigureArgon2(zeroIter); err == nil {
		t.Fatalf("expected error for zero iterations")
	}
}

func TestVerifyHonorsEmbeddedParams(t *testing.T) {
	t.Cleanup(func() {
		if err := ConfigureArgon2(DefaultArgon2Config()); err != nil {
			t.Fatalf("restore config: %v", err)
		}
	})

	custom := Argon2Config{
		Memory:      32 * 1024,
		Iterations:  2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
	if err := ConfigureArgon2(custom); err != nil {
		t.Fatalf("ConfigureArgon2 returned error: %v", err)
	}

	encoded, err := HashPassword("parameterised")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if err := ConfigureArgon2(DefaultArgon2Config()); err != nil {
		t.Fatalf("restore config: %v", err)
	}

	// Verification must use the parameters embedded in the encoding, not the
	// currently active configuration.
	if !VerifyPassword("parameterised", encoded) {
		t.Fatalf("expected hash created under previous params to verify")
	}
}
