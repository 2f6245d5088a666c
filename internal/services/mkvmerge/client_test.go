package mkvmerge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"animux/internal/logging"
	"animux/internal/services"
	"animux/internal/subtitles"
)

// captureRunner records the invocation and creates the output file so the
// client's post-run checks pass.
func captureRunner(t *testing.T, gotName *string, gotArgs *[]string) commandRunner {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) error {
		*gotName = name
		*gotArgs = append([]string(nil), args...)
		// -o is always the first flag.
		if len(args) < 2 || args[0] != "-o" {
			t.Fatalf("expected -o as first argument, got %v", args)
		}
		return os.WriteFile(args[1], []byte("mkv"), 0o644)
	}
}

func indexOf(args []string, value string) int {
	for i, a := range args {
		if a == value {
			return i
		}
	}
	return -1
}

func TestMuxBuildsExpectedArguments(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.mkv")

	var name string
	var args []string
	client := NewClient("", logging.NewNop())
	client.WithCommandRunner(captureRunner(t, &name, &args))

	req := Request{
		OutputPath:    out,
		Title:         "Non Non Biyori Vacation - 01v2 | Title",
		VideoPath:     filepath.Join(dir, "premux.mkv"),
		AudioPath:     filepath.Join(dir, "audio.flac"),
		AudioLanguage: "ja",
		AudioName:     "FLAC 2.0",
		Subtitles: []subtitles.Prepared{
			{
				Path:      filepath.Join(dir, "01_Caramel.ass"),
				TrackName: "Full Subtitles",
				Language:  "id",
				DelayMS:   1000,
				Default:   true,
				Fonts: []subtitles.Attachment{
					{Path: filepath.Join(dir, "OpenSans.ttf"), MIME: "font/ttf"},
				},
			},
			{
				Path:      filepath.Join(dir, "01_Melody.ass"),
				TrackName: "Songs & Signs",
				Language:  "id",
			},
		},
		ChaptersPath:   filepath.Join(dir, "chapter.xml"),
		GlobalTagsPath: filepath.Join(dir, "tags.xml"),
		CoverPath:      filepath.Join(dir, "cover.jpg"),
	}

	result, err := client.Mux(context.Background(), req)
	if err != nil {
		t.Fatalf("Mux returned error: %v", err)
	}
	if name != "mkvmerge" {
		t.Errorf("binary = %q, want mkvmerge", name)
	}
	if result.OutputPath != out {
		t.Errorf("result output = %q, want %q", result.OutputPath, out)
	}
	if result.Tracks != 4 {
		t.Errorf("result tracks = %d, want 4", result.Tracks)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not renamed into place: %v", err)
	}

	joined := " " + strings.Join(args, " ") + " "
	for _, want := range []string{
		" --title Non Non Biyori Vacation - 01v2 | Title ",
		" --no-attachments --no-global-tags --no-chapters " + req.VideoPath + " ",
		" --language 0:jpn --track-name 0:FLAC 2.0 --default-track 0:yes " + req.AudioPath + " ",
		" --language 0:ind --track-name 0:Full Subtitles --default-track 0:yes --sync 0:1000 ",
		" --track-name 0:Songs & Signs --default-track 0:no " + req.Subtitles[1].Path + " ",
		" --attachment-mime-type font/ttf --attach-file " + req.Subtitles[0].Fonts[0].Path + " ",
		" --attachment-name cover.jpg --attachment-mime-type image/jpeg --attach-file " + req.CoverPath + " ",
		" --chapters " + req.ChaptersPath + " ",
		" --global-tags " + req.GlobalTagsPath + " ",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("arguments missing %q\nfull: %v", strings.TrimSpace(want), args)
		}
	}

	// Video must precede audio, audio must precede subtitles.
	if !(indexOf(args, req.VideoPath) < indexOf(args, req.AudioPath)) {
		t.Error("video source does not precede audio source")
	}
	if !(indexOf(args, req.AudioPath) < indexOf(args, req.Subtitles[0].Path)) {
		t.Error("audio source does not precede subtitle sources")
	}
}

func TestMuxOmitsEmptyOptionalInputs(t *testing.T) {
	dir := t.TempDir()

	var name string
	var args []string
	client := NewClient("mkvmerge", logging.NewNop())
	client.WithCommandRunner(captureRunner(t, &name, &args))

	_, err := client.Mux(context.Background(), Request{
		OutputPath: filepath.Join(dir, "out.mkv"),
		VideoPath:  filepath.Join(dir, "premux.mkv"),
	})
	if err != nil {
		t.Fatalf("Mux returned error: %v", err)
	}

	for _, flag := range []string{"--title", "--chapters", "--global-tags", "--attach-file", "--sync"} {
		if indexOf(args, flag) != -1 {
			t.Errorf("unexpected flag %s in %v", flag, args)
		}
	}
}

func TestMuxCommandFailure(t *testing.T) {
	client := NewClient("mkvmerge", logging.NewNop())
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("mkvmerge exploded")
	})

	_, err := client.Mux(context.Background(), Request{
		OutputPath: filepath.Join(t.TempDir(), "out.mkv"),
		VideoPath:  "premux.mkv",
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestMuxValidatesRequest(t *testing.T) {
	client := NewClient("mkvmerge", logging.NewNop())
	if _, err := client.Mux(context.Background(), Request{VideoPath: "v.mkv"}); err == nil {
		t.Error("expected error for missing output path")
	}
	if _, err := client.Mux(context.Background(), Request{OutputPath: "out.mkv"}); err == nil {
		t.Error("expected error for missing video path")
	}
}
