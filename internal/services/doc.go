// Package services provides shared error classification and context helpers
// used across the mux pipeline components.
package services
