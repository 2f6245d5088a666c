// Package textutil contains small text helpers for filenames and labels.
package textutil
