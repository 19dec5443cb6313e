package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const content = `
qualities:
  - name: gold
storylets:
  - name: arrive
    condition: [and, [not, arrive], [power, 1]]
    body: Unreachable.
  - name: dock
    condition: [not, dock]
    body: You tie up the boat.
  - name: fish
    label: Go fishing
    assignments:
      - assignments:
          - {subject: gold, operation: increment, operand: 2}
`

func TestMetrics_RecordPlay(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	ctx := context.Background()

	eng, err := arbor.FromLoader(ctx, memory.NewLoaderFromSource(content), arbor.WithLifecycleHooks(metrics.Hooks()))
	require.NoError(t, err)
	session := eng.Begin(memory.NewStore(memory.WithHooks(metrics.Hooks())))

	_, err = session.Continue(ctx)
	require.NoError(t, err)
	_, err = session.Choose(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Transactions.WithLabelValues(string(domain.OutcomeCommitted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Storylets.WithLabelValues("dock", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Storylets.WithLabelValues("fish", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Choices))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Effects.WithLabelValues("gold")))
	assert.Positive(t, testutil.CollectAndCount(metrics.ContentErrors))
}

func TestMetrics_FailedTransaction(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	store := memory.NewStore(memory.WithHooks(metrics.Hooks()))

	err := store.WithTransaction(context.Background(), func(context.Context, ports.Transaction) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Transactions.WithLabelValues(string(domain.OutcomeRolledBack))))
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestDump(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	metrics.Choices.Inc()

	var buf bytes.Buffer
	require.NoError(t, observability.Dump(&buf, reg))
	assert.Contains(t, buf.String(), "# TYPE arbor_choices_total counter")
	assert.Contains(t, buf.String(), "arbor_choices_total 1")
}
