// Package episodes defines the episode identifier type and the episode
// argument parser used by the batch runner.
package episodes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"animux/internal/services"
)

// Episode identifies one episode of the release: either a small non-negative
// number or an opaque token such as "movie". Equality is by normalized string.
type Episode struct {
	number  int
	token   string
	numeric bool
}

// FromNumber builds a numeric episode identifier.
func FromNumber(n int) Episode {
	return Episode{number: n, numeric: true}
}

// FromToken builds an opaque token episode identifier.
func FromToken(token string) Episode {
	return Episode{token: token}
}

// Numeric returns the episode number and whether the identifier is numeric.
func (e Episode) Numeric() (int, bool) {
	return e.number, e.numeric
}

// String renders the canonical identifier: two-digit zero-padded decimal for
// numbers, the token verbatim otherwise.
func (e Episode) String() string {
	if e.numeric {
		return fmt.Sprintf("%02d", e.number)
	}
	return e.token
}

// IsMovie reports whether the identifier is the movie token.
func (e Episode) IsMovie() bool {
	return !e.numeric && strings.EqualFold(e.token, "movie")
}

// Lister enumerates the file names (not paths) of a directory. The parser
// uses it to discover episodes for the "all" specification; tests inject
// fakes so parsing stays independent of the filesystem.
type Lister interface {
	List(dir string) ([]string, error)
}

// Parse expands a compact episode specification ("1-5,7,movie" or "all")
// into an ordered, de-duplicated episode list. Malformed range segments
// produce an ErrInvalidSpec-tagged error.
func Parse(spec string, subtitleDir string, lister Lister) ([]Episode, error) {
	if strings.EqualFold(strings.TrimSpace(spec), "all") {
		return parseAll(subtitleDir, lister)
	}

	var eps []Episode
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch {
		case strings.Contains(part, "-") && isDigits(strings.ReplaceAll(part, "-", "")):
			expanded, err := parseRange(part)
			if err != nil {
				return nil, err
			}
			eps = append(eps, expanded...)
		case isDigits(part):
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "parse", part, err)
			}
			eps = append(eps, FromNumber(n))
		default:
			eps = append(eps, FromToken(part))
		}
	}
	return dedupe(eps), nil
}

// parseAll scans the subtitle directory for scripts whose name starts with a
// two-digit episode number and returns those episodes in ascending order.
func parseAll(subtitleDir string, lister Lister) ([]Episode, error) {
	names, err := lister.List(subtitleDir)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "scan subtitles", subtitleDir, err)
	}

	seen := make(map[int]struct{})
	var numbers []int
	for _, name := range names {
		if !strings.HasSuffix(strings.ToLower(name), ".ass") {
			continue
		}
		if len(name) < 2 || !isDigits(name[:2]) {
			continue
		}
		n, err := strconv.Atoi(name[:2])
		if err != nil {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	eps := make([]Episode, 0, len(numbers))
	for _, n := range numbers {
		eps = append(eps, FromNumber(n))
	}
	return eps, nil
}

func parseRange(part string) ([]Episode, error) {
	bounds := strings.Split(part, "-")
	if len(bounds) != 2 {
		return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "parse range", part, nil)
	}
	start, err := strconv.Atoi(bounds[0])
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "parse range", part, err)
	}
	end, err := strconv.Atoi(bounds[1])
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "parse range", part, err)
	}
	if end < start {
		return nil, services.Wrap(services.ErrInvalidSpec, "episodes", "parse range",
			fmt.Sprintf("%s: end before start", part), nil)
	}

	eps := make([]Episode, 0, end-start+1)
	for n := start; n <= end; n++ {
		eps = append(eps, FromNumber(n))
	}
	return eps, nil
}

// dedupe removes duplicate identifiers while preserving first-occurrence order.
func dedupe(eps []Episode) []Episode {
	seen := make(map[string]struct{}, len(eps))
	out := eps[:0]
	for _, ep := range eps {
		key := ep.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ep)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
