package subtitles

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"animux/internal/fileutil"
)

// Attachment is one font file to attach to the output container.
type Attachment struct {
	Path string
	MIME string
}

var fontMIMETypes = map[string]string{
	".ttf": "font/ttf",
	".otf": "font/otf",
	".ttc": "font/collection",
}

// CollectFonts matches the font names referenced by a script against the
// font files in fontDir. System fonts are never consulted; only the
// per-track directory is searched. Unmatched names are reported so the
// caller can surface them, matching is case-insensitive and ignores spaces
// and hyphens (font files rarely name themselves exactly like the style).
func CollectFonts(fontNames []string, fontDir string) (attachments []Attachment, missing []string) {
	if len(fontNames) == 0 {
		return nil, nil
	}
	if !fileutil.DirExists(fontDir) {
		return nil, append(missing, fontNames...)
	}

	var files []string
	_ = filepath.WalkDir(fontDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, ok := fontMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	used := make(map[string]struct{})
	for _, name := range fontNames {
		want := normalizeFontName(name)
		found := false
		for _, file := range files {
			base := filepath.Base(file)
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			if strings.Contains(normalizeFontName(stem), want) {
				found = true
				if _, dup := used[file]; dup {
					continue
				}
				used[file] = struct{}{}
				attachments = append(attachments, Attachment{
					Path: file,
					MIME: fontMIMETypes[strings.ToLower(filepath.Ext(file))],
				})
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return attachments, missing
}

func normalizeFontName(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, name)
}
