package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Encoded form: argon2id$v=19$m=<memory>,t=<iterations>,p=<parallelism>$<salt>$<hash>
// with salt and hash in raw (unpadded) standard base64.
const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

var (
	errInvalidHashFormat = errors.New("argon2: invalid encoded hash format")
	errInvalidConfig     = errors.New("argon2: invalid configuration")
)

// Argon2Config holds the tunable Argon2id cost parameters.
type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var (
	defaultArgon2Config = Argon2Config{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}

	activeArgon2 = defaultArgon2Config
	argon2Mu     sync.RWMutex
)

// DefaultArgon2Config returns the built-in cost parameters.
func DefaultArgon2Config() Argon2Config {
	return defaultArgon2Config
}

// CurrentArgon2Config returns the parameters new hashes are created with.
func CurrentArgon2Config() Argon2Config {
	argon2Mu.RLock()
	defer argon2Mu.RUnlock()
	return activeArgon2
}

// ConfigureArgon2 installs new cost parameters after validating them against
// sane floors. Existing hashes keep verifying with their embedded parameters.
func ConfigureArgon2(cfg Argon2Config) error {
	switch {
	case cfg.Memory < 8*1024:
		return fmt.Errorf("%w: memory must be at least 8192 KiB", errInvalidConfig)
	case cfg.Iterations == 0:
		return fmt.Errorf("%w: iterations must be greater than zero", errInvalidConfig)
	case cfg.Parallelism == 0:
		return fmt.Errorf("%w: parallelism must be greater than zero", errInvalidConfig)
	case cfg.SaltLength < 8:
		return fmt.Errorf("%w: salt length must be at least 8 bytes", errInvalidConfig)
	case cfg.KeyLength < 16:
		return fmt.Errorf("%w: key length must be at least 16 bytes", errInvalidConfig)
	}

	argon2Mu.Lock()
	activeArgon2 = cfg
	argon2Mu.Unlock()
	return nil
}

// HashPassword derives an Argon2id hash under the active parameters. Every
// call draws a fresh salt, so equal passwords never produce equal encodings.
func HashPassword(password string) (string, error) {
	cfg := CurrentArgon2Config()

	salt := make([]byte, cfg.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, cfg.KeyLength)

	var b strings.Builder
	fmt.Fprintf(&b, "%s$%s$m=%d,t=%d,p=%d$%s$%s",
		argon2Variant,
		argon2Version,
		cfg.Memory, cfg.Iterations, cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return b.String(), nil
}

// VerifyPassword checks a password against a stored encoding. A well-formed
// hash that simply does not match yields (false, nil); only a malformed
// encoding is an error. Comparison is constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	cfg, salt, want, err := decodeArgon2Hash(encoded)
	if err != nil {
		return false, err
	}

	got := argon2.IDKey([]byte(password), salt, cfg.Iterations, cfg.Memory, cfg.Parallelism, cfg.KeyLength)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func decodeArgon2Hash(encoded string) (Argon2Config, []byte, []byte, error) {
	var cfg Argon2Config

	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != argon2Variant || parts[1] != argon2Version {
		return cfg, nil, nil, errInvalidHashFormat
	}

	if n, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Iterations, &cfg.Parallelism); err != nil || n != 3 {
		return cfg, nil, nil, errInvalidHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return cfg, nil, nil, errInvalidHashFormat
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return cfg, nil, nil, errInvalidHashFormat
	}

	cfg.SaltLength = uint32(len(salt))
	cfg.KeyLength = uint32(len(key))
	return cfg, salt, key, nil
}
