package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateShow(); err != nil {
		return err
	}
	if err := c.validateMux(); err != nil {
		return err
	}
	return c.validateTMDB()
}

func (c *Config) validateShow() error {
	if c.Show.Name == "" {
		return errors.New("show.name must be set")
	}
	if c.Show.PremuxDir == "" {
		return errors.New("show.premux_dir must be set")
	}
	if c.Show.SubtitleDir == "" {
		return errors.New("show.subtitle_dir must be set")
	}
	if c.Show.AudioDir == "" {
		return errors.New("show.audio_dir must be set")
	}
	return nil
}

func (c *Config) validateMux() error {
	if len(c.Mux.Subtitles) == 0 {
		return errors.New("mux.subtitles must configure at least one track")
	}
	for i, track := range c.Mux.Subtitles {
		if strings.TrimSpace(track.File) == "" {
			return fmt.Errorf("mux.subtitles[%d].file must be set", i)
		}
		if track.DelayMS < 0 {
			return fmt.Errorf("mux.subtitles[%d].delay_ms must not be negative", i)
		}
	}
	defaults := 0
	for _, track := range c.Mux.Subtitles {
		if track.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return errors.New("mux.subtitles may flag at most one default track")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if !c.TMDB.WriteCover {
		return nil
	}
	if c.TMDB.APIKey == "" {
		// Cover download degrades to a warning at mux time; an explicit id
		// without a key is still valid for global tag writing.
		return nil
	}
	if c.Show.TMDBID <= 0 {
		return errors.New("show.tmdb_id must be set when tmdb.write_cover is enabled")
	}
	return nil
}
