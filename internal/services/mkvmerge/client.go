// Package mkvmerge drives the mkvmerge binary to assemble the final
// release container from a premux, an audio track, and prepared subtitles.
package mkvmerge

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"log/slog"

	langpkg "animux/internal/language"
	"animux/internal/logging"
	"animux/internal/services"
	"animux/internal/subtitles"
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Request describes one complete mux invocation.
type Request struct {
	OutputPath string
	Title      string // container title

	VideoPath string // premux source, stripped of its attachments, tags, and chapters

	AudioPath     string
	AudioLanguage string // ISO 639-1 code
	AudioName     string

	Subtitles []subtitles.Prepared

	ChaptersPath   string // empty means no chapters
	GlobalTagsPath string // empty means no global tags
	CoverPath      string // empty means no cover attachment
}

// Result reports a completed invocation.
type Result struct {
	OutputPath string
	Tracks     int
}

// Client assembles release containers with mkvmerge.
type Client struct {
	binary string
	logger *slog.Logger
	run    commandRunner
}

// NewClient constructs a mux client invoking the given mkvmerge binary.
func NewClient(binary string, logger *slog.Logger) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = "mkvmerge"
	}
	return &Client{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "mkvmerge"),
		run:    defaultCommandRunner,
	}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (c *Client) WithCommandRunner(r commandRunner) {
	if c != nil && r != nil {
		c.run = r
	}
}

// Mux runs mkvmerge for the request. The output is written to a temporary
// file next to the destination and renamed into place on success.
func (c *Client) Mux(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("mkvmerge client not initialized")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return Result{}, fmt.Errorf("output path is required")
	}
	if strings.TrimSpace(req.VideoPath) == "" {
		return Result{}, fmt.Errorf("video path is required")
	}

	dir := filepath.Dir(req.OutputPath)
	base := filepath.Base(req.OutputPath)
	tmpPath := filepath.Join(dir, ".mux-"+base+".tmp")

	args := buildArgs(req, tmpPath)

	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("executing mkvmerge",
		logging.String("video", req.VideoPath),
		logging.String("audio", req.AudioPath),
		logging.Int("subtitle_tracks", len(req.Subtitles)),
		logging.String("output", req.OutputPath),
	)

	if err := c.run(ctx, c.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, services.Wrap(services.ErrExternalTool, "mkvmerge", "mux", req.OutputPath, err)
	}

	if _, err := os.Stat(tmpPath); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "mkvmerge", "mux", "no output produced", err)
	}
	if err := os.Rename(tmpPath, req.OutputPath); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("replace output container: %w", err)
	}

	tracks := 1 + len(req.Subtitles)
	if req.AudioPath != "" {
		tracks++
	}

	logger.Info("container assembled",
		logging.String("output", req.OutputPath),
		logging.Int("tracks", tracks),
	)

	return Result{OutputPath: req.OutputPath, Tracks: tracks}, nil
}

// buildArgs constructs the mkvmerge command arguments. Source order fixes
// track order in the container: video first, then audio, then subtitles in
// configured order.
func buildArgs(req Request, outputPath string) []string {
	args := []string{"-o", outputPath}

	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	// The premux carries its own attachments, tags, and chapters from the
	// source disc; all of those are replaced by ours.
	args = append(args,
		"--no-attachments",
		"--no-global-tags",
		"--no-chapters",
		req.VideoPath,
	)

	if req.AudioPath != "" {
		args = append(args, "--language", "0:"+langpkg.ToISO3(req.AudioLanguage))
		if req.AudioName != "" {
			args = append(args, "--track-name", "0:"+req.AudioName)
		}
		args = append(args, "--default-track", "0:yes")
		args = append(args, req.AudioPath)
	}

	for _, sub := range req.Subtitles {
		args = append(args, "--language", "0:"+langpkg.ToISO3(sub.Language))
		if sub.TrackName != "" {
			args = append(args, "--track-name", "0:"+sub.TrackName)
		}
		if sub.Default {
			args = append(args, "--default-track", "0:yes")
		} else {
			args = append(args, "--default-track", "0:no")
		}
		if sub.DelayMS != 0 {
			args = append(args, "--sync", fmt.Sprintf("0:%d", sub.DelayMS))
		}
		args = append(args, sub.Path)
	}

	for _, sub := range req.Subtitles {
		for _, font := range sub.Fonts {
			args = append(args,
				"--attachment-mime-type", font.MIME,
				"--attach-file", font.Path,
			)
		}
	}

	if req.CoverPath != "" {
		args = append(args,
			"--attachment-name", "cover"+filepath.Ext(req.CoverPath),
			"--attachment-mime-type", coverMIMEType(req.CoverPath),
			"--attach-file", req.CoverPath,
		)
	}

	if req.ChaptersPath != "" {
		args = append(args, "--chapters", req.ChaptersPath)
	}
	if req.GlobalTagsPath != "" {
		args = append(args, "--global-tags", req.GlobalTagsPath)
	}

	return args
}

func coverMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}

// defaultCommandRunner executes mkvmerge commands.
func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
