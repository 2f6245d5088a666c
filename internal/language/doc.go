// Package language provides language code normalization for track tagging.
//
// mkvmerge expects ISO 639-2 (3-letter) codes while the configuration uses
// the shorter ISO 639-1 forms; all conversions and display names are
// consolidated here.
package language
