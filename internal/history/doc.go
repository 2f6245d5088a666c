// Package history persists batch runs and per-episode outcomes to SQLite
// so past muxes can be inspected after the terminal scrolls away.
package history
