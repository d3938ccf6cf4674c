package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ryabko/account-service/internal/infra/config"
)

// Provider holds service-level metric collectors.
type Provider struct {
	loginAttempts *prometheus.CounterVec
}

// Attach registers service metrics and returns a provider handle.
func Attach(cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	namespace := cfg.Telemetry.Namespace
	if namespace == "" {
		namespace = "accounts"
	}

	loginAttempts := promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts partitioned by outcome.",
	}, []string{"outcome"})

	return &Provider{
		loginAttempts: loginAttempts,
	}, nil
}

// RecordLogin increments the login attempt counter for the given outcome.
func (p *Provider) RecordLogin(outcome string) {
	if p == nil || p.loginAttempts == nil {
		return
	}
	p.loginAttempts.WithLabelValues(outcome).Inc()
}
