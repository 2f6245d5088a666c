// Package config loads, normalizes, and validates the animux configuration.
//
// The configuration is an explicit value constructed once at startup and
// passed to every component; no package holds a process-wide default.
package config
