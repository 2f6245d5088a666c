// Package metadata talks to TMDB for show details and cover artwork and
// renders the Matroska global tags attached to every release.
package metadata
