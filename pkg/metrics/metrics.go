package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
)

// Outcome labels shared by the counters below.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeLimitReached = "limit_reached"
	OutcomeFallback     = "fallback"
)

// Metrics holds the service-level Prometheus collectors. Collectors are
// registered against the registry passed to New, so tests can use a private
// registry without collision.
type Metrics struct {
	registry *prometheus.Registry

	// ChatMessages counts chat turns by conversation kind (thought|general)
	// and outcome.
	ChatMessages *prometheus.CounterVec
	// GenerationCalls counts generation-service invocations by operation
	// (chat|summary|analysis) and outcome.
	GenerationCalls *prometheus.CounterVec
	// SummaryCache counts weekly summary lookups by result (hit|miss|refresh).
	SummaryCache *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		ChatMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "mindlog",
			Name:      "chat_messages_total",
			Help:      "Chat turns processed, by conversation kind and outcome.",
		}, []string{"kind", "outcome"}),
		GenerationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "mindlog",
			Name:      "generation_calls_total",
			Help:      "Generation service invocations, by operation and outcome.",
		}, []string{"op", "outcome"}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: "mindlog",
			Name:      "summary_cache_total",
			Help:      "Weekly summary cache lookups, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.ChatMessages, m.GenerationCalls, m.SummaryCache)
	return m
}

// Serve exposes the registry on its own listener so the metrics port can be
// firewalled independently of the API port.
func Serve(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, m *Metrics) {
	if cfg.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("metrics started", "addr", cfg.MetricsAddr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("metrics server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(Serve),
)
