package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Document is a parsed ASS script: an ordered list of sections, each holding
// its raw lines. Only the structure needed for merging and cleanup is
// modeled; line content other than styles and events passes through verbatim.
type Document struct {
	sections []*section
}

type section struct {
	name  string // canonical lower-case name without brackets
	title string // original "[...]" header line
	lines []string
}

const (
	sectionStyles  = "v4+ styles"
	sectionEvents  = "events"
	sectionGarbage = "aegisub project garbage"
)

// ParseFile reads and parses an ASS script from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads an ASS script. Lines before the first section header are
// dropped (BOM and stray whitespace included).
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	var current *section

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, "\uFEFF")

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			name := strings.ToLower(strings.TrimSpace(trimmed[1 : len(trimmed)-1]))
			current = &section{name: name, title: trimmed}
			doc.sections = append(doc.sections, current)
			continue
		}
		if current == nil {
			continue
		}
		current.lines = append(current.lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(doc.sections) == 0 {
		return nil, fmt.Errorf("no sections found")
	}
	return doc, nil
}

// WriteFile renders the document to path.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (d *Document) render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, sec := range d.sections {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(sec.title + "\n"); err != nil {
			return err
		}
		for _, line := range sec.lines {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func (d *Document) find(name string) *section {
	for _, sec := range d.sections {
		if sec.name == name {
			return sec
		}
	}
	return nil
}

// Merge appends other's styles and events to d. Styles whose name already
// exists in d keep d's definition, so the main script always wins.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}

	if src := other.find(sectionStyles); src != nil {
		dst := d.find(sectionStyles)
		if dst == nil {
			dst = &section{name: sectionStyles, title: "[V4+ Styles]"}
			d.sections = append(d.sections, dst)
		}
		existing := make(map[string]struct{})
		for _, name := range styleNames(dst.lines) {
			existing[strings.ToLower(name)] = struct{}{}
		}
		for _, line := range src.lines {
			name, ok := styleLineName(line)
			if !ok {
				continue
			}
			if _, dup := existing[strings.ToLower(name)]; dup {
				continue
			}
			existing[strings.ToLower(name)] = struct{}{}
			dst.lines = append(dst.lines, line)
		}
	}

	if src := other.find(sectionEvents); src != nil {
		dst := d.find(sectionEvents)
		if dst == nil {
			dst = &section{name: sectionEvents, title: "[Events]"}
			d.sections = append(d.sections, dst)
		}
		for _, line := range src.lines {
			if isEventLine(line) {
				dst.lines = append(dst.lines, line)
			}
		}
	}
}

// CleanStyles drops style definitions no dialogue event references.
// Idempotent: a second pass removes nothing further.
func (d *Document) CleanStyles() {
	styles := d.find(sectionStyles)
	if styles == nil {
		return
	}

	used := make(map[string]struct{})
	if events := d.find(sectionEvents); events != nil {
		for _, line := range events.lines {
			if style, ok := eventStyle(line); ok {
				used[strings.ToLower(style)] = struct{}{}
			}
		}
	}

	kept := styles.lines[:0]
	for _, line := range styles.lines {
		name, ok := styleLineName(line)
		if !ok {
			kept = append(kept, line) // format and comment lines stay
			continue
		}
		if _, ok := used[strings.ToLower(name)]; ok {
			kept = append(kept, line)
		}
	}
	styles.lines = kept
}

// CleanGarbage removes editor metadata sections and comment events.
// Idempotent: a second pass removes nothing further.
func (d *Document) CleanGarbage() {
	kept := d.sections[:0]
	for _, sec := range d.sections {
		if sec.name == sectionGarbage {
			continue
		}
		kept = append(kept, sec)
	}
	d.sections = kept

	if events := d.find(sectionEvents); events != nil {
		lines := events.lines[:0]
		for _, line := range events.lines {
			if strings.HasPrefix(strings.TrimSpace(line), "Comment:") {
				continue
			}
			lines = append(lines, line)
		}
		events.lines = lines
	}
}

// StyleFonts returns the distinct font names referenced by the document's
// styles, in definition order.
func (d *Document) StyleFonts() []string {
	styles := d.find(sectionStyles)
	if styles == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var fonts []string
	for _, line := range styles.lines {
		font, ok := styleLineFont(line)
		if !ok {
			continue
		}
		key := strings.ToLower(font)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fonts = append(fonts, font)
	}
	return fonts
}

func styleNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		if name, ok := styleLineName(line); ok {
			names = append(names, name)
		}
	}
	return names
}

// styleLineName extracts the style name from a "Style: Name,Fontname,..." line.
func styleLineName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Style:")
	if !ok {
		return "", false
	}
	fields := strings.SplitN(rest, ",", 3)
	if len(fields) < 2 {
		return "", false
	}
	return strings.TrimSpace(fields[0]), true
}

// styleLineFont extracts the font name, the second style field.
func styleLineFont(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Style:")
	if !ok {
		return "", false
	}
	fields := strings.SplitN(rest, ",", 3)
	if len(fields) < 3 {
		return "", false
	}
	font := strings.TrimSpace(fields[1])
	// Embedded fonts are prefixed with "@" for vertical layout variants.
	font = strings.TrimPrefix(font, "@")
	if font == "" {
		return "", false
	}
	return font, true
}

// eventStyle extracts the style field from a "Dialogue: Layer,Start,End,Style,..." line.
func eventStyle(line string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Dialogue:")
	if !ok {
		return "", false
	}
	fields := strings.SplitN(rest, ",", 5)
	if len(fields) < 5 {
		return "", false
	}
	return strings.TrimSpace(fields[3]), true
}

func isEventLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "Dialogue:") || strings.HasPrefix(trimmed, "Comment:")
}
