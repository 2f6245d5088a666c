package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Show describes the release being muxed: its name, the directories holding
// episode components, and the external metadata identity.
type Show struct {
	Name        string   `toml:"name"`
	PremuxDir   string   `toml:"premux_dir"`
	SubtitleDir string   `toml:"subtitle_dir"`
	AudioDir    string   `toml:"audio_dir"`
	TMDBID      int64    `toml:"tmdb_id"`
	Titles      []string `toml:"titles"`
	// MovieKeyword selects the movie premux when episode matching fails and
	// more than one candidate exists.
	MovieKeyword string `toml:"movie_keyword"`
}

// SubtitleTrack configures one subtitle track on the output container.
// Per-show naming quirks (file names, delays, font directories) are data here,
// not code.
type SubtitleTrack struct {
	File      string `toml:"file"`
	TrackName string `toml:"track_name"`
	Language  string `toml:"language"`
	DelayMS   int    `toml:"delay_ms"`
	Default   bool   `toml:"default"`
	FontDir   string `toml:"font_dir"`
}

// Mux contains output naming and track assembly configuration.
type Mux struct {
	OutputDir     string          `toml:"output_dir"`
	ReleaseGroup  string          `toml:"release_group"`
	SourceLabel   string          `toml:"source_label"`
	AudioLanguage string          `toml:"audio_language"`
	AudioName     string          `toml:"audio_name"`
	ChaptersFile  string          `toml:"chapters_file"`
	WarningFile   string          `toml:"warning_file"`
	// Binary overrides the mkvmerge executable; empty means $PATH lookup.
	Binary    string          `toml:"mkvmerge_binary"`
	Subtitles []SubtitleTrack `toml:"subtitles"`
}

// TMDB contains configuration for The Movie Database metadata options.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
	Language     string `toml:"language"`
	WriteCover   bool   `toml:"write_cover"`
	Movie        bool   `toml:"movie"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// History contains configuration for the mux result database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config encapsulates all configuration values for animux.
//
// Sections by subsystem:
//   - Show: release identity and component directories
//   - Mux: output naming and track assembly
//   - TMDB: external metadata options (cover art, global tags)
//   - Logging: log format and level
//   - History: mux result persistence
type Config struct {
	Show    Show    `toml:"show"`
	Mux     Mux     `toml:"mux"`
	TMDB    TMDB    `toml:"tmdb"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`

	// baseDir anchors relative show paths; it is the directory of the
	// resolved config file, falling back to the working directory.
	baseDir string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/animux/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and anchored at the config file's
// directory, so the tool behaves the same from any working directory.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		cfg.baseDir = filepath.Dir(resolvedPath)
	} else {
		if cfg.baseDir, err = os.Getwd(); err != nil {
			return nil, "", false, fmt.Errorf("resolve working directory: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("animux.toml")
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// BaseDir returns the directory relative show paths are anchored at.
func (c *Config) BaseDir() string {
	return c.baseDir
}

// EnsureHistoryDir creates the history directory when history is enabled.
func (c *Config) EnsureHistoryDir() error {
	if !c.History.Enabled || strings.TrimSpace(c.History.Dir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.History.Dir, 0o755); err != nil {
		return fmt.Errorf("create history directory %q: %w", c.History.Dir, err)
	}
	return nil
}

// MkvmergeBinary returns the configured mkvmerge executable name.
func (c *Config) MkvmergeBinary() string {
	if strings.TrimSpace(c.Mux.Binary) != "" {
		return c.Mux.Binary
	}
	return "mkvmerge"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
