package observability

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "arbor"

// Metrics holds the collectors updated by Hooks.
type Metrics struct {
	Transactions        *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
	Storylets           *prometheus.CounterVec
	Choices             prometheus.Counter
	Effects             *prometheus.CounterVec
	ContentErrors       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// It panics if a collector with the same name is already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Store transactions by outcome.",
		}, []string{"outcome"}),
		TransactionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "Time spent inside store transactions, queueing excluded.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		Storylets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storylets_entered_total",
			Help:      "Storylets that became active.",
		}, []string{"storylet", "ambient"}),
		Choices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_total",
			Help:      "Choices and listed storylets selected by players.",
		}),
		Effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_total",
			Help:      "Quality mutations that changed a value.",
		}, []string{"quality"}),
		ContentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_errors_total",
			Help:      "Malformed content met during evaluation.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.Transactions, m.TransactionDuration, m.Storylets, m.Choices, m.Effects, m.ContentErrors)
	return m
}

// Hooks returns lifecycle hooks that record into m.
// Combine them with other hooks using domain.ComposeHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStoryletEnter: func(_ context.Context, e *domain.StoryletEvent) {
			m.Storylets.WithLabelValues(e.Storylet, strconv.FormatBool(e.Ambient)).Inc()
		},
		OnChoice: func(context.Context, *domain.ChoiceEvent) {
			m.Choices.Inc()
		},
		OnEffect: func(_ context.Context, e *domain.EffectEvent) {
			m.Effects.WithLabelValues(e.Quality).Inc()
		},
		OnDiagnostic: func(_ context.Context, e *domain.DiagnosticEvent) {
			reason := "unknown"
			if e.Err != nil {
				reason = e.Err.Reason
			}
			m.ContentErrors.WithLabelValues(reason).Inc()
		},
		OnTransaction: func(_ context.Context, e *domain.TransactionEvent) {
			m.Transactions.WithLabelValues(string(e.Outcome)).Inc()
			m.TransactionDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Dump writes every family gathered from g in the Prometheus text format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
