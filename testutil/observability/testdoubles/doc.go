// Package testdoubles provides spies for the dependency-free observability interfaces
// (Logger, ContextualLogger, MetricsCollector, TracingCollector) of the adapter and postgresengine packages.
//
// All spies are safe for concurrent use and return copies of what they recorded.
package testdoubles
