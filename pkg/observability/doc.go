/*
Package observability turns export lifecycle events into logs and Prometheus metrics.

Both are plain domain.LifecycleHooks, so they compose with user hooks through
LifecycleHooks.Merge:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
*/
package observability
