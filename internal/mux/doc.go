// Package mux orchestrates one episode at a time: resolve the premux and
// audio sources, prepare subtitle tracks, gather chapters and metadata,
// invoke mkvmerge, and stamp the output with its CRC32. Every failure is
// captured in the episode's Result; nothing escapes to the batch layer.
package mux
