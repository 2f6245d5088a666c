package subtitles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"animux/internal/config"
	"animux/internal/fileutil"
	"animux/internal/logging"
	"animux/internal/services"
)

// Prepared is a subtitle track ready for muxing: the cleaned script on disk
// plus the track options and font attachments it carries.
type Prepared struct {
	Path      string
	TrackName string
	Language  string
	DelayMS   int
	Default   bool
	Fonts     []Attachment
}

// Preparer rewrites subtitle scripts into a work directory.
type Preparer struct {
	warningPath string
	workDir     string
	logger      *slog.Logger
}

// NewPreparer constructs a subtitle preparer. warningPath is the shared
// fragment merged into every track; workDir receives the rewritten scripts.
func NewPreparer(warningPath, workDir string, logger *slog.Logger) *Preparer {
	return &Preparer{
		warningPath: warningPath,
		workDir:     workDir,
		logger:      logging.NewComponentLogger(logger, "subtitles"),
	}
}

// Prepare runs the fixed sequence for one configured track: existence check,
// load, merge of the shared fragment, style normalization, garbage removal.
// prefix namespaces the rewritten script inside the work directory (one
// episode may prepare several tracks from identically named files).
func (p *Preparer) Prepare(track config.SubtitleTrack, prefix string) (Prepared, error) {
	if !fileutil.Exists(track.File) {
		return Prepared{}, services.Wrap(services.ErrNotFound, "subtitles", "prepare", track.File, nil)
	}

	doc, err := ParseFile(track.File)
	if err != nil {
		return Prepared{}, fmt.Errorf("load subtitle: %w", err)
	}

	if p.warningPath != "" {
		if fileutil.Exists(p.warningPath) {
			warning, err := ParseFile(p.warningPath)
			if err != nil {
				return Prepared{}, fmt.Errorf("load warning fragment: %w", err)
			}
			doc.Merge(warning)
		} else {
			p.logger.Warn("shared warning fragment missing, skipping merge",
				logging.String("path", p.warningPath))
		}
	}

	doc.CleanStyles()
	doc.CleanGarbage()

	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		return Prepared{}, fmt.Errorf("create work directory: %w", err)
	}
	outPath := filepath.Join(p.workDir, prefix+filepath.Base(track.File))
	if err := doc.WriteFile(outPath); err != nil {
		return Prepared{}, fmt.Errorf("write prepared subtitle: %w", err)
	}

	fonts, missingFonts := CollectFonts(doc.StyleFonts(), track.FontDir)
	if len(missingFonts) > 0 {
		p.logger.Warn("fonts referenced by styles were not found",
			logging.String("font_dir", track.FontDir),
			logging.Any("missing", missingFonts))
	}

	return Prepared{
		Path:      outPath,
		TrackName: track.TrackName,
		Language:  track.Language,
		DelayMS:   track.DelayMS,
		Default:   track.Default,
		Fonts:     fonts,
	}, nil
}
