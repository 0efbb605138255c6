// Package telemetry provides structured logging for the custom-kernel tools.
//
// The package wraps zerolog with component-scoped child loggers, context
// plumbing, and per-invocation run identifiers. Every parser and resolver
// takes a *Logger so diagnostics surface through one consistent stream.
package telemetry
