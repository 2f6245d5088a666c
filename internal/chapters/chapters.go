// Package chapters loads Matroska chapter XML so the mux step can decide
// whether a chapters file is worth attaching.
package chapters

import (
	"encoding/xml"
	"fmt"
	"os"

	"animux/internal/services"
)

// Chapters is a parsed Matroska chapter document.
type Chapters struct {
	XMLName  xml.Name  `xml:"Chapters"`
	Editions []Edition `xml:"EditionEntry"`
}

// Edition is one edition entry holding the chapter atoms.
type Edition struct {
	Atoms []Atom `xml:"ChapterAtom"`
}

// Atom is a single chapter marker.
type Atom struct {
	TimeStart string    `xml:"ChapterTimeStart"`
	TimeEnd   string    `xml:"ChapterTimeEnd"`
	Displays  []Display `xml:"ChapterDisplay"`
}

// Display carries the chapter title in one language.
type Display struct {
	Title    string `xml:"ChapterString"`
	Language string `xml:"ChapterLanguage"`
}

// Load parses the chapter file at path. A missing file is reported with a
// not-found marker so callers can treat it as "no chapters" rather than a
// hard failure.
func Load(path string) (*Chapters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "chapters", "load", path, nil)
		}
		return nil, fmt.Errorf("read chapters: %w", err)
	}

	var doc Chapters
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse chapters %s: %w", path, err)
	}
	return &doc, nil
}

// IsEmpty reports whether the document carries no chapter atoms at all.
func (c *Chapters) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, edition := range c.Editions {
		if len(edition.Atoms) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of chapter atoms across all editions.
func (c *Chapters) Count() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, edition := range c.Editions {
		n += len(edition.Atoms)
	}
	return n
}
