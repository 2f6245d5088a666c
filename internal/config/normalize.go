package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeShow(); err != nil {
		return err
	}
	if err := c.normalizeMux(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeLogging()
	return c.normalizeHistory()
}

// anchorPath resolves a possibly relative path against the config base
// directory so the tool behaves the same from any working directory.
func (c *Config) anchorPath(pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") {
		return expandPath(pathValue)
	}
	if !filepath.IsAbs(pathValue) {
		pathValue = filepath.Join(c.baseDir, pathValue)
	}
	return filepath.Clean(pathValue), nil
}

func (c *Config) normalizeShow() error {
	var err error
	c.Show.Name = strings.TrimSpace(c.Show.Name)
	if c.Show.PremuxDir, err = c.anchorPath(c.Show.PremuxDir); err != nil {
		return fmt.Errorf("show.premux_dir: %w", err)
	}
	if c.Show.SubtitleDir, err = c.anchorPath(c.Show.SubtitleDir); err != nil {
		return fmt.Errorf("show.subtitle_dir: %w", err)
	}
	if c.Show.AudioDir, err = c.anchorPath(c.Show.AudioDir); err != nil {
		return fmt.Errorf("show.audio_dir: %w", err)
	}
	c.Show.MovieKeyword = strings.TrimSpace(c.Show.MovieKeyword)
	return nil
}

func (c *Config) normalizeMux() error {
	if len(c.Mux.Subtitles) == 0 {
		c.Mux.Subtitles = defaultSubtitleTracks()
	}
	c.Mux.OutputDir = strings.TrimSpace(c.Mux.OutputDir)
	if c.Mux.OutputDir == "" {
		c.Mux.OutputDir = defaultOutputDir
	}
	c.Mux.ReleaseGroup = strings.TrimSpace(c.Mux.ReleaseGroup)
	if c.Mux.ReleaseGroup == "" {
		c.Mux.ReleaseGroup = defaultReleaseGroup
	}
	c.Mux.SourceLabel = strings.TrimSpace(c.Mux.SourceLabel)
	c.Mux.AudioLanguage = strings.ToLower(strings.TrimSpace(c.Mux.AudioLanguage))
	if c.Mux.AudioLanguage == "" {
		c.Mux.AudioLanguage = defaultAudioLanguage
	}

	// Chapter and warning files live under the subtitle directory unless absolute.
	if c.Mux.ChaptersFile != "" && !filepath.IsAbs(c.Mux.ChaptersFile) {
		c.Mux.ChaptersFile = filepath.Join(c.Show.SubtitleDir, c.Mux.ChaptersFile)
	}
	if c.Mux.WarningFile != "" && !filepath.IsAbs(c.Mux.WarningFile) {
		c.Mux.WarningFile = filepath.Join(c.Show.SubtitleDir, c.Mux.WarningFile)
	}

	for i := range c.Mux.Subtitles {
		track := &c.Mux.Subtitles[i]
		track.File = strings.TrimSpace(track.File)
		if track.File != "" && !filepath.IsAbs(track.File) {
			track.File = filepath.Join(c.Show.SubtitleDir, track.File)
		}
		track.Language = strings.ToLower(strings.TrimSpace(track.Language))
		if track.FontDir != "" && !filepath.IsAbs(track.FontDir) {
			track.FontDir = filepath.Join(c.Show.SubtitleDir, track.FontDir)
		}
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	c.History.Dir = strings.TrimSpace(c.History.Dir)
	if c.History.Dir == "" {
		c.History.Dir = defaultHistoryDir
	}
	if c.History.Dir, err = expandPath(c.History.Dir); err != nil {
		return fmt.Errorf("history.dir: %w", err)
	}
	return nil
}
