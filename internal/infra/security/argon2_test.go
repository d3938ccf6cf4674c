package security

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(hash, "argon2id$v=19$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}

	ok, err := VerifyPassword("Secret123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := VerifyPassword("Secret124", hash)
	if err != nil {
		t.Fatalf("mismatch should not be an error, got %v", err)
	}
	if ok {
		t.Fatal("expected mismatching password to fail verification")
	}
}

func TestHashPasswordSaltsPerCall(t *testing.T) {
	first, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct encodings for the same password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"not-a-hash",
		"argon2id$v=19$m=65536,t=3,p=4$onlyfourparts",
		"bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"argon2id$v=19$m=banana,t=3,p=4$c2FsdA$aGFzaA",
	} {
		if _, err := VerifyPassword("Secret123", encoded); err == nil {
			t.Errorf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestConfigureArgon2RejectsWeakParameters(t *testing.T) {
	original := CurrentArgon2Config()
	defer func() {
		if err := ConfigureArgon2(original); err != nil {
			t.Fatalf("restore config: %v", err)
		}
	}()

	weak := original
	weak.Memory = 1024
	if err := ConfigureArgon2(weak); err == nil {
		t.Fatal("expected error for sub-minimum memory")
	}

	zeroIter := original
	zeroIter.Iterations = 0
	if err := ConfigureArgon2(zeroIter); err == nil {
		t.Fatal("expected error for zero iterations")
	}
}

func TestVerifyPasswordUsesEmbeddedParameters(t *testing.T) {
	original := CurrentArgon2Config()
	defer func() {
		if err := ConfigureArgon2(original); err != nil {
			t.Fatalf("restore config: %v", err)
		}
	}()

	light := Argon2Config{Memory: 16 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	if err := ConfigureArgon2(light); err != nil {
		t.Fatalf("ConfigureArgon2 returned error: %v", err)
	}

	hash, err := HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	// Hashes verify with the parameters baked into the encoding, not the
	// currently active configuration.
	if err := ConfigureArgon2(original); err != nil {
		t.Fatalf("ConfigureArgon2 returned error: %v", err)
	}

	ok, err := VerifyPassword("Secret123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected hash created under previous parameters to verify")
	}
}
