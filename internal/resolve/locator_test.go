package resolve

import (
	"errors"
	"testing"

	"animux/internal/config"
	"animux/internal/services"
)

func fakeWalk(paths ...string) WalkFunc {
	return func(string) ([]string, error) {
		out := make([]string, len(paths))
		copy(out, paths)
		return out, nil
	}
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestFindVideoMatchesEpisodePatterns(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		ep    string
		want  string
	}{
		{
			name:  "spaced dash",
			files: []string{"/premux/Show - 01 (BD).mkv", "/premux/Show - 02 (BD).mkv"},
			ep:    "01",
			want:  "/premux/Show - 01 (BD).mkv",
		},
		{
			name:  "episode close paren",
			files: []string{"/premux/Show (S01E03).mkv"},
			ep:    "03",
			want:  "/premux/Show (S01E03).mkv",
		},
		{
			name:  "season episode",
			files: []string{"/premux/Show.S01E05.1080p.mkv"},
			ep:    "05",
			want:  "/premux/Show.S01E05.1080p.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocator()
			loc.WithWalkFunc(fakeWalk(tt.files...))

			got, err := loc.FindVideo(tt.ep, testConfig())
			if err != nil {
				t.Fatalf("FindVideo returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FindVideo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindVideoMovieFallbacks(t *testing.T) {
	cfg := testConfig()

	// Single file: assumed to be the movie.
	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk("/premux/Feature.mkv"))
	got, err := loc.FindVideo("movie", cfg)
	if err != nil {
		t.Fatalf("FindVideo(movie) returned error: %v", err)
	}
	if got != "/premux/Feature.mkv" {
		t.Errorf("FindVideo(movie) = %q, want the single file", got)
	}

	// Several files: the movie keyword decides.
	loc = NewLocator()
	loc.WithWalkFunc(fakeWalk("/premux/Extras.mkv", "/premux/Non Non Biyori Vacation.mkv"))
	got, err = loc.FindVideo("01", cfg)
	if err != nil {
		t.Fatalf("FindVideo(01) returned error: %v", err)
	}
	if got != "/premux/Non Non Biyori Vacation.mkv" {
		t.Errorf("FindVideo(01) = %q, want the keyword match", got)
	}
}

func TestFindVideoNotFound(t *testing.T) {
	cfg := testConfig()

	// Several files, none matching, none with the keyword.
	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk("/premux/a.mkv", "/premux/b.mkv"))
	_, err := loc.FindVideo("01", cfg)
	if err == nil {
		t.Fatal("expected NotFound")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	// Fallback never applies to regular episodes.
	loc = NewLocator()
	loc.WithWalkFunc(fakeWalk("/premux/only.mkv"))
	if _, err := loc.FindVideo("02", cfg); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for unmatched regular episode", err)
	}
}

func TestFindVideoIgnoresNonMKV(t *testing.T) {
	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk("/premux/Show - 01 (BD).mp4"))
	if _, err := loc.FindVideo("01", testConfig()); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for non-mkv candidates", err)
	}
}

func TestFindAudio(t *testing.T) {
	cfg := testConfig()

	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk(
		"/audio/Show Audio 02 (flac).flac",
		"/audio/Show Audio 01 (flac).flac",
	))

	got, err := loc.FindAudio("01", cfg)
	if err != nil {
		t.Fatalf("FindAudio returned error: %v", err)
	}
	if got != "/audio/Show Audio 01 (flac).flac" {
		t.Errorf("FindAudio = %q, want the 01 track", got)
	}
}

func TestFindAudioMovieSearchesAsEpisodeOne(t *testing.T) {
	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk("/audio/Vacation Audio 01.flac"))

	got, err := loc.FindAudio("movie", testConfig())
	if err != nil {
		t.Fatalf("FindAudio(movie) returned error: %v", err)
	}
	if got != "/audio/Vacation Audio 01.flac" {
		t.Errorf("FindAudio(movie) = %q, want the 01 track", got)
	}
}

func TestFindAudioNotFound(t *testing.T) {
	loc := NewLocator()
	loc.WithWalkFunc(fakeWalk("/audio/Show Audio 05.flac"))

	_, err := loc.FindAudio("01", testConfig())
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestWalkFilesOnRealFilesystem(t *testing.T) {
	dir := t.TempDir()
	loc := NewLocator()
	if _, err := loc.FindVideo("01", func() *config.Config {
		cfg := config.Default()
		cfg.Show.PremuxDir = dir
		return &cfg
	}()); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for empty directory", err)
	}
}
