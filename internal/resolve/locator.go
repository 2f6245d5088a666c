// Package resolve locates per-episode media components on disk.
//
// The directories act as an ad hoc naming database: there is no manifest, so
// resolution is re-derived from filename patterns on every call. The match
// rules are ordered data so show-specific quirks stay testable in isolation.
package resolve

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"animux/internal/config"
	"animux/internal/services"
)

// WalkFunc enumerates all regular files under root, recursively. The
// default walks the real filesystem; tests inject fakes.
type WalkFunc func(root string) ([]string, error)

// Locator resolves video and audio paths for a normalized episode string.
type Locator struct {
	walk WalkFunc
}

// NewLocator constructs a locator backed by the real filesystem.
func NewLocator() *Locator {
	return &Locator{walk: walkFiles}
}

// WithWalkFunc injects a custom directory walker for tests.
func (l *Locator) WithWalkFunc(fn WalkFunc) {
	if l != nil && fn != nil {
		l.walk = fn
	}
}

// videoRule is one ordered filename predicate for premux matching.
type videoRule struct {
	name    string
	matches func(name, ep string) bool
}

// videoRules are tried in order against every candidate file; the first
// file satisfying any rule wins.
var videoRules = []videoRule{
	{"spaced", func(name, ep string) bool { return strings.Contains(name, " - "+ep+" ") }},
	{"episode-close", func(name, ep string) bool { return strings.Contains(name, "E"+ep+")") }},
	{"season-episode", func(name, ep string) bool { return strings.Contains(name, "S01E"+ep) }},
}

// FindVideo locates the premux container for the episode. Candidates are all
// *.mkv files under the premux directory in sorted order. When no rule
// matches and the episode is "01" or the movie token, a single remaining
// file (or the configured movie keyword) selects the movie premux.
func (l *Locator) FindVideo(ep string, cfg *config.Config) (string, error) {
	paths, err := l.glob(cfg.Show.PremuxDir, "*.mkv")
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "locator", "video", cfg.Show.PremuxDir, err)
	}

	for _, path := range paths {
		name := filepath.Base(path)
		for _, rule := range videoRules {
			if rule.matches(name, ep) {
				return path, nil
			}
		}
	}

	if (ep == "01" || strings.EqualFold(ep, "movie")) && len(paths) > 0 {
		if len(paths) == 1 {
			return paths[0], nil
		}
		if keyword := cfg.Show.MovieKeyword; keyword != "" {
			for _, path := range paths {
				if strings.Contains(filepath.Base(path), keyword) {
					return path, nil
				}
			}
		}
	}

	return "", services.Wrap(services.ErrNotFound, "locator", "video", "episode "+ep, nil)
}

// FindAudio locates the FLAC audio for the episode by the *Audio*{ep}*.flac
// pattern. The movie token searches as "01", the number single-feature audio
// releases carry.
func (l *Locator) FindAudio(ep string, cfg *config.Config) (string, error) {
	searchEp := ep
	if strings.EqualFold(ep, "movie") {
		searchEp = "01"
	}

	path, err := l.findAudioPattern(searchEp, cfg)
	if err == nil {
		return path, nil
	}

	return "", services.Wrap(services.ErrNotFound, "locator", "audio", "episode "+ep, nil)
}

func (l *Locator) findAudioPattern(ep string, cfg *config.Config) (string, error) {
	paths, err := l.glob(cfg.Show.AudioDir, "*Audio*"+ep+"*.flac")
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", services.ErrNotFound
	}
	return paths[0], nil
}

// glob walks root and keeps the files whose base name matches pattern,
// sorted for deterministic first-match behavior.
func (l *Locator) glob(root, pattern string) ([]string, error) {
	paths, err := l.walk(root)
	if err != nil {
		return nil, err
	}

	matched := paths[:0]
	for _, path := range paths {
		ok, err := filepath.Match(pattern, filepath.Base(path))
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, path)
		}
	}
	sort.Strings(matched)
	return matched, nil
}

func walkFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
