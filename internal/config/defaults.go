package config

const (
	defaultShowName      = "Non Non Biyori Vacation"
	defaultPremuxDir     = "premux"
	defaultSubtitleDir   = "subtitle"
	defaultAudioDir      = "audio"
	defaultTMDBID        = 494471
	defaultMovieKeyword  = "Vacation"
	defaultOutputDir     = "muxed"
	defaultReleaseGroup  = "pololer"
	defaultSourceLabel   = "BDRip 1920x1080 HEVC FLAC"
	defaultAudioLanguage = "ja"
	defaultChaptersFile  = "chapter.xml"
	defaultWarningFile   = "common/warning.ass"
	defaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	defaultTMDBImageURL  = "https://image.tmdb.org/t/p/original"
	defaultTMDBLanguage  = "en-US"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultHistoryDir    = "~/.local/share/animux"
)

// defaultSubtitleTracks mirrors the release's two fansub scripts. They are
// applied during normalization rather than stored in Default: TOML array
// tables append to pre-filled slices, so a config file declaring its own
// [[mux.subtitles]] must start from an empty list.
func defaultSubtitleTracks() []SubtitleTrack {
	return []SubtitleTrack{
		{
			File:      "Caramel.ass",
			TrackName: "Caramel Fansub",
			Language:  "id",
			DelayMS:   1000,
			Default:   true,
			FontDir:   "font-caramel",
		},
		{
			File:      "Melody.ass",
			TrackName: "Melody Fansub",
			Language:  "id",
			Default:   false,
			FontDir:   "font-melody",
		},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Show: Show{
			Name:         defaultShowName,
			PremuxDir:    defaultPremuxDir,
			SubtitleDir:  defaultSubtitleDir,
			AudioDir:     defaultAudioDir,
			TMDBID:       defaultTMDBID,
			Titles:       []string{"Liburan"},
			MovieKeyword: defaultMovieKeyword,
		},
		Mux: Mux{
			OutputDir:     defaultOutputDir,
			ReleaseGroup:  defaultReleaseGroup,
			SourceLabel:   defaultSourceLabel,
			AudioLanguage: defaultAudioLanguage,
			ChaptersFile:  defaultChaptersFile,
			WarningFile:   defaultWarningFile,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			ImageBaseURL: defaultTMDBImageURL,
			Language:     defaultTMDBLanguage,
			WriteCover:   true,
			Movie:        true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Dir:     defaultHistoryDir,
		},
	}
}
