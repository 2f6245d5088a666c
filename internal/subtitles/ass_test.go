package subtitles

import (
	"strings"
	"testing"
)

const mainScript = `[Script Info]
Title: Episode 01
ScriptType: v4.00+

[Aegisub Project Garbage]
Audio File: ep01.flac

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Open Sans,48
Style: Signs,LT Finnegan,40
Style: Unused,Comic Sans,20

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,Hello
Comment: 0,0:00:00.00,0:00:00.00,Default,,0,0,0,,editor note
Dialogue: 0,0:00:05.00,0:00:07.00,Signs,,0,0,0,,Sign text
`

const warningScript = `[Script Info]
Title: Warning

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Warning,Open Sans,36
Style: Default,Arial,48

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:00.00,0:00:05.00,Warning,,0,0,0,,Fansub warning
`

func parseString(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return doc
}

func renderString(t *testing.T, doc *Document) string {
	t.Helper()
	var sb strings.Builder
	if err := doc.render(&sb); err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	return sb.String()
}

func TestMergeAppendsStylesAndEvents(t *testing.T) {
	doc := parseString(t, mainScript)
	doc.Merge(parseString(t, warningScript))

	out := renderString(t, doc)
	if !strings.Contains(out, "Style: Warning,Open Sans,36") {
		t.Error("merged style missing")
	}
	if !strings.Contains(out, "Fansub warning") {
		t.Error("merged event missing")
	}
	// The main script's Default definition wins over the fragment's.
	if strings.Contains(out, "Style: Default,Arial,48") {
		t.Error("fragment overrode an existing style")
	}
}

func TestCleanStylesDropsUnreferenced(t *testing.T) {
	doc := parseString(t, mainScript)
	doc.CleanStyles()

	out := renderString(t, doc)
	if strings.Contains(out, "Comic Sans") {
		t.Error("unreferenced style survived CleanStyles")
	}
	if !strings.Contains(out, "Style: Default,Open Sans,48") {
		t.Error("referenced style removed")
	}
	if !strings.Contains(out, "Style: Signs,LT Finnegan,40") {
		t.Error("referenced style removed")
	}

	// Idempotent.
	before := renderString(t, doc)
	doc.CleanStyles()
	if got := renderString(t, doc); got != before {
		t.Error("CleanStyles is not idempotent")
	}
}

func TestCleanGarbageRemovesSectionsAndComments(t *testing.T) {
	doc := parseString(t, mainScript)
	doc.CleanGarbage()

	out := renderString(t, doc)
	if strings.Contains(out, "Aegisub Project Garbage") {
		t.Error("garbage section survived")
	}
	if strings.Contains(out, "editor note") {
		t.Error("comment event survived")
	}
	if !strings.Contains(out, "Hello") {
		t.Error("dialogue event removed")
	}

	before := renderString(t, doc)
	doc.CleanGarbage()
	if got := renderString(t, doc); got != before {
		t.Error("CleanGarbage is not idempotent")
	}
}

func TestStyleFonts(t *testing.T) {
	doc := parseString(t, mainScript)
	fonts := doc.StyleFonts()

	want := []string{"Open Sans", "LT Finnegan", "Comic Sans"}
	if len(fonts) != len(want) {
		t.Fatalf("StyleFonts = %v, want %v", fonts, want)
	}
	for i := range want {
		if fonts[i] != want[i] {
			t.Errorf("StyleFonts[%d] = %q, want %q", i, fonts[i], want[i])
		}
	}
}

func TestParseRejectsEmptyInput(t *testing.T) {
	if _, err := Parse(strings.NewReader("no sections here\n")); err == nil {
		t.Fatal("expected error for input without sections")
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	doc := parseString(t, "\uFEFF"+mainScript)
	if got := renderString(t, doc); strings.Contains(got, "\uFEFF") {
		t.Errorf("byte order mark survived parsing:\n%s", got)
	}
	if len(doc.StyleFonts()) == 0 {
		t.Error("styles lost when input begins with a byte order mark")
	}
}
