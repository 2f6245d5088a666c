// Package logging configures slog output for animux.
//
// Two handler formats are supported: a human-oriented console handler used
// for interactive runs and a JSON handler for machine consumption. Attribute
// helpers keep call sites terse and field names consistent.
package logging
