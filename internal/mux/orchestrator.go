package mux

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"animux/internal/chapters"
	"animux/internal/config"
	"animux/internal/episodes"
	"animux/internal/fileutil"
	"animux/internal/logging"
	"animux/internal/metadata"
	"animux/internal/resolve"
	"animux/internal/services"
	"animux/internal/services/mkvmerge"
	"animux/internal/subtitles"
	"animux/internal/textutil"
)

// Options carries the per-run knobs from the command line.
type Options struct {
	OutputDir    string
	ReleaseGroup string // overrides the configured group when set
	DryRun       bool
	Version      int
}

// Result is the outcome of muxing one episode.
type Result struct {
	Episode    string
	OutputPath string
	VideoPath  string
	AudioPath  string
	Duration   time.Duration
	DryRun     bool
	Err        error
}

// Success reports whether the episode completed without error.
func (r Result) Success() bool {
	return r.Err == nil
}

// Message returns the error text, or empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Assets are the batch-wide inputs shared by every episode: chapters,
// global tags, and cover art. Each field is empty when the asset is
// unavailable; episodes mux without it.
type Assets struct {
	ChaptersPath   string
	GlobalTagsPath string
	CoverPath      string
}

// Orchestrator drives the full pipeline for single episodes.
type Orchestrator struct {
	cfg      *config.Config
	opts     Options
	locator  *resolve.Locator
	preparer *subtitles.Preparer
	client   *mkvmerge.Client
	tmdb     *metadata.Client
	logger   *slog.Logger
	workDir  string
}

// New constructs an orchestrator writing into opts.OutputDir. The mkvmerge
// client is passed in so commands can share one instance with injected
// runners in tests.
func New(cfg *config.Config, client *mkvmerge.Client, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Version < 1 {
		opts.Version = 1
	}
	if strings.TrimSpace(opts.ReleaseGroup) == "" {
		opts.ReleaseGroup = cfg.Mux.ReleaseGroup
	}
	workDir := filepath.Join(opts.OutputDir, ".animux")
	return &Orchestrator{
		cfg:      cfg,
		opts:     opts,
		locator:  resolve.NewLocator(),
		preparer: subtitles.NewPreparer(cfg.Mux.WarningFile, workDir, logger),
		client:   client,
		logger:   logging.NewComponentLogger(logger, "mux"),
		workDir:  workDir,
	}
}

// WithLocator replaces the resource locator, for tests.
func (o *Orchestrator) WithLocator(l *resolve.Locator) {
	if o != nil && l != nil {
		o.locator = l
	}
}

// WithMetadataClient attaches a TMDB client used by PrepareAssets.
func (o *Orchestrator) WithMetadataClient(c *metadata.Client) {
	if o != nil {
		o.tmdb = c
	}
}

// PrepareAssets gathers the batch-wide inputs. Every step is best-effort:
// a missing chapter file or an unreachable TMDB endpoint downgrades the
// release instead of failing it.
func (o *Orchestrator) PrepareAssets(ctx context.Context) Assets {
	var assets Assets

	if path := o.cfg.Mux.ChaptersFile; path != "" {
		doc, err := chapters.Load(path)
		switch {
		case services.IsNotFound(err):
			o.logger.Warn("chapter file missing, muxing without chapters",
				logging.String("path", path))
		case err != nil:
			o.logger.Warn("chapter file unreadable, muxing without chapters",
				logging.String("path", path), logging.Error(err))
		case doc.IsEmpty():
			o.logger.Warn("chapter file has no chapters, skipping",
				logging.String("path", path))
		default:
			assets.ChaptersPath = path
			o.logger.Debug("chapters loaded",
				logging.String("path", path), logging.Int("count", doc.Count()))
		}
	}

	if o.tmdb == nil || o.cfg.Show.TMDBID <= 0 {
		return assets
	}
	if err := os.MkdirAll(o.workDir, 0o755); err != nil {
		o.logger.Warn("work directory unavailable, skipping metadata", logging.Error(err))
		return assets
	}

	var details *metadata.Details
	var err error
	if o.cfg.TMDB.Movie {
		details, err = o.tmdb.GetMovieDetails(ctx, o.cfg.Show.TMDBID)
	} else {
		details, err = o.tmdb.GetTVDetails(ctx, o.cfg.Show.TMDBID)
	}
	if err != nil {
		o.logger.Warn("metadata lookup failed, muxing without tags",
			logging.Int64("tmdb_id", o.cfg.Show.TMDBID), logging.Error(err))
		return assets
	}

	tagsPath := filepath.Join(o.workDir, "tags.xml")
	if err := metadata.WriteGlobalTags(tagsPath, details, o.opts.ReleaseGroup, o.cfg.Mux.SourceLabel); err != nil {
		o.logger.Warn("global tags write failed", logging.Error(err))
	} else {
		assets.GlobalTagsPath = tagsPath
	}

	if o.cfg.TMDB.WriteCover {
		coverPath, err := o.tmdb.DownloadPoster(ctx, details, o.workDir)
		if err != nil {
			o.logger.Warn("cover download failed, muxing without cover", logging.Error(err))
		} else {
			assets.CoverPath = coverPath
		}
	}
	return assets
}

// MuxEpisode runs the pipeline for one episode. All errors are folded into
// the returned Result.
func (o *Orchestrator) MuxEpisode(ctx context.Context, ep episodes.Episode, assets Assets) Result {
	start := time.Now()
	result := Result{Episode: ep.String(), DryRun: o.opts.DryRun}
	logger := o.logger.With(logging.String(logging.FieldEpisode, ep.String()))

	fail := func(err error) Result {
		result.Err = err
		result.Duration = time.Since(start)
		logger.Error("episode failed", logging.Error(err))
		return result
	}

	baseName, title := o.names(ep)

	videoPath, err := o.locator.FindVideo(ep.String(), o.cfg)
	if err != nil {
		return fail(err)
	}
	result.VideoPath = videoPath

	audioPath, err := o.locator.FindAudio(ep.String(), o.cfg)
	if err != nil {
		return fail(err)
	}
	result.AudioPath = audioPath

	if o.opts.DryRun {
		logger.Info("dry run, resolved inputs only",
			logging.String("video", videoPath),
			logging.String("audio", audioPath),
			logging.String("output", baseName+".mkv"),
		)
		result.OutputPath = filepath.Join(o.opts.OutputDir, baseName+".mkv")
		result.Duration = time.Since(start)
		return result
	}

	prepared := make([]subtitles.Prepared, 0, len(o.cfg.Mux.Subtitles))
	for _, track := range o.cfg.Mux.Subtitles {
		p, err := o.preparer.Prepare(track, ep.String()+"_")
		if err != nil {
			return fail(err)
		}
		prepared = append(prepared, p)
	}

	outputPath := filepath.Join(o.opts.OutputDir, baseName+".mkv")
	muxed, err := o.client.Mux(ctx, mkvmerge.Request{
		OutputPath:     outputPath,
		Title:          title,
		VideoPath:      videoPath,
		AudioPath:      audioPath,
		AudioLanguage:  o.cfg.Mux.AudioLanguage,
		AudioName:      o.cfg.Mux.AudioName,
		Subtitles:      prepared,
		ChaptersPath:   assets.ChaptersPath,
		GlobalTagsPath: assets.GlobalTagsPath,
		CoverPath:      assets.CoverPath,
	})
	if err != nil {
		return fail(err)
	}

	finalPath, err := o.stampCRC(muxed.OutputPath, baseName)
	if err != nil {
		return fail(err)
	}
	result.OutputPath = finalPath
	result.Duration = time.Since(start)

	logger.Info("episode muxed",
		logging.String("output", finalPath),
		logging.Int("tracks", muxed.Tracks),
		logging.Duration("duration", result.Duration),
	)
	return result
}

// names computes the output base name and the container title for ep.
// The version suffix appears only for v2 and above. The per-episode title
// joins the container title only for numeric episodes inside the configured
// title list (1-based).
func (o *Orchestrator) names(ep episodes.Episode) (baseName, title string) {
	display := ep.String()
	if _, ok := ep.Numeric(); !ok {
		display = textutil.TitleCase(display)
	}
	version := ""
	if o.opts.Version > 1 {
		version = fmt.Sprintf(" v%d", o.opts.Version)
	}

	baseName = fmt.Sprintf("[%s] %s - %s%s (%s)",
		o.opts.ReleaseGroup, o.cfg.Show.Name, display, version, o.cfg.Mux.SourceLabel)
	baseName = textutil.SanitizeFileName(baseName)

	title = fmt.Sprintf("%s - %s%s", o.cfg.Show.Name, display, version)
	if n, ok := ep.Numeric(); ok && n >= 1 && n <= len(o.cfg.Show.Titles) {
		title += " | " + o.cfg.Show.Titles[n-1]
	}
	return baseName, title
}

// stampCRC renames the muxed file so its name carries the output's CRC32.
func (o *Orchestrator) stampCRC(path, baseName string) (string, error) {
	crc, err := fileutil.CRC32File(path)
	if err != nil {
		return "", fmt.Errorf("checksum output: %w", err)
	}
	finalPath := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s [%s].mkv", baseName, crc))
	if err := os.Rename(path, finalPath); err != nil {
		return "", fmt.Errorf("rename output: %w", err)
	}
	return finalPath, nil
}
