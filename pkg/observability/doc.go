/*
Package observability exposes engine activity as Prometheus metrics.

Metrics are fed entirely through domain.LifecycleHooks, so the same hooks can
be handed to an arbor.Engine (storylets, choices, effects, content errors) and
to a store (transaction outcomes):

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	eng, _ := arbor.Load(path, arbor.WithLifecycleHooks(metrics.Hooks()))
	store := memory.NewStore(memory.WithHooks(metrics.Hooks()))
*/
package observability
