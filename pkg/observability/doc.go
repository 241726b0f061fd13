/*
Package observability turns the lifecycle hooks of the advisor into logs and
Prometheus metrics.

Collector registers counters and histograms for runs, transitions, decision
signals and guardrail verdicts; Collector.Hooks feeds them. LoggingHooks logs
the same callbacks with slog. Combine both with domain.LifecycleHooks.Merge.
*/
package observability
