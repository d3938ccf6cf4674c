package logger

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey stores the request identifier on a context.
type RequestIDKey struct{}

var (
	root     *zap.Logger
	initOnce sync.Once
)

// New builds the process-wide logger. Production gets JSON output at info
// level; any other environment gets a colorized console encoder at debug.
// Repeated calls return the logger built on first use.
func New(env string) (*zap.Logger, error) {
	var err error
	initOnce.Do(func() {
		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
		} else {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		root, err = cfg.Build()
	})

	if root == nil && err == nil {
		root = zap.NewNop()
	}
	return root, err
}

// WithContext returns the logger annotated with the request id carried by ctx.
func WithContext(ctx context.Context) *zap.Logger {
	log := root
	if log == nil {
		log = zap.NewNop()
	}
	if ctx == nil {
		return log
	}
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
		return log.With(zap.String("request_id", id))
	}
	return log
}

// MaskEmail hides the local part of an address except for a short prefix, so
// logs stay correlatable without storing the full address.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}

	prefix := email[:at]
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix + "***" + email[at:]
}

// MaskIP keeps the network half of an address and blanks the host half.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if octets := strings.Split(ip, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".*.*"
	}
	if groups := strings.Split(ip, ":"); len(groups) >= 4 {
		return strings.Join(groups[:4], ":") + ":*:*:*:*"
	}
	return "***"
}
