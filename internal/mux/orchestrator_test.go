package mux

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"animux/internal/config"
	"animux/internal/episodes"
	"animux/internal/logging"
	"animux/internal/services/mkvmerge"
)

const episodeScript = `[Script Info]
Title: Test

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Open Sans,48

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,Line
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.Show.Name = "Non Non Biyori Vacation"
	cfg.Show.PremuxDir = filepath.Join(root, "premux")
	cfg.Show.SubtitleDir = filepath.Join(root, "subtitle")
	cfg.Show.AudioDir = filepath.Join(root, "audio")
	cfg.Show.Titles = []string{"First Title", "Second Title"}
	cfg.Mux.WarningFile = ""
	cfg.Mux.ChaptersFile = ""
	cfg.Mux.Subtitles = []config.SubtitleTrack{
		{
			File:      filepath.Join(cfg.Show.SubtitleDir, "Caramel.ass"),
			TrackName: "Full Subtitles",
			Language:  "id",
			DelayMS:   1000,
			Default:   true,
		},
	}

	for _, dir := range []string{cfg.Show.PremuxDir, cfg.Show.SubtitleDir, cfg.Show.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	mustWrite := func(path, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	mustWrite(filepath.Join(cfg.Show.PremuxDir, "Show - 01 (BD).mkv"), "video")
	mustWrite(filepath.Join(cfg.Show.AudioDir, "Show.Audio.01.flac"), "audio")
	mustWrite(filepath.Join(cfg.Show.SubtitleDir, "Caramel.ass"), episodeScript)
	return cfg
}

// fakeClient returns an mkvmerge client whose runner records invocations and
// fabricates the output file.
func fakeClient(t *testing.T, calls *int, lastArgs *[]string) *mkvmerge.Client {
	t.Helper()
	client := mkvmerge.NewClient("mkvmerge", logging.NewNop())
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		*calls++
		*lastArgs = append([]string(nil), args...)
		return os.WriteFile(args[1], []byte("mkv"), 0o644)
	})
	return client
}

func TestMuxEpisodeSuccess(t *testing.T) {
	cfg := testConfig(t)
	outDir := t.TempDir()

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: outDir}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(1), Assets{})
	if !result.Success() {
		t.Fatalf("episode failed: %v", result.Err)
	}
	if calls != 1 {
		t.Fatalf("runner called %d times, want 1", calls)
	}

	wantName := regexp.MustCompile(`^\[pololer\] Non Non Biyori Vacation - 01 \(BDRip 1920x1080 HEVC FLAC\) \[[0-9A-F]{8}\]\.mkv$`)
	if base := filepath.Base(result.OutputPath); !wantName.MatchString(base) {
		t.Errorf("output name %q does not match release pattern", base)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Errorf("output not present after CRC stamp: %v", err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--title Non Non Biyori Vacation - 01 | First Title") {
		t.Errorf("container title missing episode title, args: %v", args)
	}
	if !strings.Contains(joined, "--sync 0:1000") {
		t.Errorf("subtitle delay not applied, args: %v", args)
	}
}

func TestMuxEpisodeVersionSuffix(t *testing.T) {
	cfg := testConfig(t)
	outDir := t.TempDir()

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: outDir, Version: 2}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(1), Assets{})
	if !result.Success() {
		t.Fatalf("episode failed: %v", result.Err)
	}
	if base := filepath.Base(result.OutputPath); !strings.Contains(base, " - 01 v2 (") {
		t.Errorf("version suffix missing from %q", base)
	}
	if !strings.Contains(strings.Join(args, " "), "--title Non Non Biyori Vacation - 01 v2 | First Title") {
		t.Errorf("version suffix missing from container title, args: %v", args)
	}
}

func TestMuxEpisodeDryRunSkipsCollaborator(t *testing.T) {
	cfg := testConfig(t)

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir(), DryRun: true}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(1), Assets{})
	if !result.Success() {
		t.Fatalf("dry run failed: %v", result.Err)
	}
	if calls != 0 {
		t.Errorf("runner called %d times during dry run", calls)
	}
	if result.VideoPath == "" || result.AudioPath == "" {
		t.Errorf("dry run did not report resolved inputs: %+v", result)
	}
}

func TestMuxEpisodeMissingVideoFails(t *testing.T) {
	cfg := testConfig(t)

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(7), Assets{})
	if result.Success() {
		t.Fatal("expected failure for unresolvable episode")
	}
	if calls != 0 {
		t.Errorf("runner called despite resolution failure")
	}
	if result.Message() == "" {
		t.Error("failure carries no message")
	}
}

func TestMuxEpisodeMissingAudioFails(t *testing.T) {
	cfg := testConfig(t)
	// Premux for episode 02 exists, audio only covers 01.
	if err := os.WriteFile(filepath.Join(cfg.Show.PremuxDir, "Show - 02 (BD).mkv"), []byte("video"), 0o644); err != nil {
		t.Fatalf("write premux: %v", err)
	}

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(2), Assets{})
	if result.Success() {
		t.Fatal("expected failure for missing audio")
	}
	if calls != 0 {
		t.Errorf("runner called despite audio resolution failure")
	}
	if !strings.Contains(result.Message(), "not found") {
		t.Errorf("failure message %q does not report the missing resource", result.Message())
	}
}

func TestMuxEpisodeMissingSubtitleFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mux.Subtitles[0].File = filepath.Join(cfg.Show.SubtitleDir, "absent.ass")

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromNumber(1), Assets{})
	if result.Success() {
		t.Fatal("expected failure for missing subtitle")
	}
	if calls != 0 {
		t.Errorf("runner called despite subtitle failure")
	}
}

func TestMuxEpisodeMovieTitleCased(t *testing.T) {
	cfg := testConfig(t)
	mustWrite := filepath.Join(cfg.Show.PremuxDir, "Non Non Biyori Vacation.mkv")
	if err := os.WriteFile(mustWrite, []byte("movie"), 0o644); err != nil {
		t.Fatalf("write movie premux: %v", err)
	}

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	result := o.MuxEpisode(context.Background(), episodes.FromToken("movie"), Assets{})
	if !result.Success() {
		t.Fatalf("movie episode failed: %v", result.Err)
	}
	if base := filepath.Base(result.OutputPath); !strings.Contains(base, " - Movie (") {
		t.Errorf("movie token not title-cased in %q", base)
	}
	// Movie episodes fall outside the title list; no per-episode title.
	if strings.Contains(strings.Join(args, " "), "| First Title") {
		t.Errorf("movie got a numeric episode title, args: %v", args)
	}
}

func TestPrepareAssetsChapters(t *testing.T) {
	cfg := testConfig(t)
	chapterPath := filepath.Join(cfg.Show.SubtitleDir, "chapter.xml")
	chapterXML := `<Chapters><EditionEntry><ChapterAtom><ChapterTimeStart>00:00:00.000</ChapterTimeStart></ChapterAtom></EditionEntry></Chapters>`
	if err := os.WriteFile(chapterPath, []byte(chapterXML), 0o644); err != nil {
		t.Fatalf("write chapters: %v", err)
	}
	cfg.Mux.ChaptersFile = chapterPath

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	assets := o.PrepareAssets(context.Background())
	if assets.ChaptersPath != chapterPath {
		t.Errorf("chapters path = %q, want %q", assets.ChaptersPath, chapterPath)
	}

	// Empty chapter files are skipped rather than attached.
	if err := os.WriteFile(chapterPath, []byte("<Chapters><EditionEntry></EditionEntry></Chapters>"), 0o644); err != nil {
		t.Fatalf("rewrite chapters: %v", err)
	}
	if assets := o.PrepareAssets(context.Background()); assets.ChaptersPath != "" {
		t.Errorf("empty chapter file attached: %q", assets.ChaptersPath)
	}
}

func TestPrepareAssetsMissingChaptersNonFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mux.ChaptersFile = filepath.Join(cfg.Show.SubtitleDir, "absent.xml")

	var calls int
	var args []string
	o := New(cfg, fakeClient(t, &calls, &args), Options{OutputDir: t.TempDir()}, logging.NewNop())

	if assets := o.PrepareAssets(context.Background()); assets.ChaptersPath != "" {
		t.Errorf("missing chapter file attached: %q", assets.ChaptersPath)
	}
}
