// Package instrument provides the logging, metrics and tracing plumbing shared by the storage engines.
//
// Every repository operation is wrapped in an Observation which records a duration histogram,
// an operation counter, error and conflict counters, a tracing span, and an operational log line.
// All collectors are optional; a zero Instrumentation records nothing.
package instrument
