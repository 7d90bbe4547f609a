package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arklim/social-platform-admin/internal/infra/config"
)

// Provider owns the process-level collectors that are not tied to a single
// request: a static service info gauge and a serving gauge flipped by the
// application lifecycle. Per-request collectors live in the HTTP metrics
// middleware under the http subsystem, so the names here must stay outside
// of it.
type Provider struct {
	info    *prometheus.GaugeVec
	serving prometheus.Gauge
}

// Attach registers the process-level collectors and returns the provider
// handle the application uses to flip the serving state.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	namespace := cfg.Telemetry.MetricsNamespace
	if namespace == "" {
		namespace = "admin"
	}

	info, err := registerGaugeVec(prometheus.DefaultRegisterer, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "service_info",
		Help:      "Static service metadata; always 1 per label combination.",
	}, []string{"service", "env"}))
	if err != nil {
		return nil, fmt.Errorf("register service info gauge: %w", err)
	}

	serving, err := registerGauge(prometheus.DefaultRegisterer, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "service_serving",
		Help:      "Whether the HTTP server is accepting requests (1) or not (0).",
	}))
	if err != nil {
		return nil, fmt.Errorf("register serving gauge: %w", err)
	}

	info.With(prometheus.Labels{"service": cfg.App.Name, "env": cfg.App.Env}).Set(1)

	return &Provider{info: info, serving: serving}, nil
}

// SetServing records whether the HTTP server is accepting requests.
func (p *Provider) SetServing(up bool) {
	if p == nil || p.serving == nil {
		return
	}
	if up {
		p.serving.Set(1)
	} else {
		p.serving.Set(0)
	}
}

func registerGaugeVec(reg prometheus.Registerer, gauge *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return gauge, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return gauge, nil
}
