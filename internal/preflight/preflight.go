// Package preflight provides readiness checks for the directories and
// external binaries a mux run depends on. The "animux check" command runs
// all of them; the mux command runs the directory checks before a batch so
// a doomed run fails in milliseconds instead of mid-episode.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"animux/internal/config"
	"animux/internal/fileutil"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Premux directory", cfg.Show.PremuxDir),
		CheckDirectoryAccess("Subtitle directory", cfg.Show.SubtitleDir),
		CheckDirectoryAccess("Audio directory", cfg.Show.AudioDir),
	}

	for _, track := range cfg.Mux.Subtitles {
		results = append(results, CheckFileExists("Subtitle "+track.TrackName, track.File))
	}
	if cfg.Mux.WarningFile != "" {
		results = append(results, CheckFileExists("Warning fragment", cfg.Mux.WarningFile))
	}
	if cfg.Mux.ChaptersFile != "" {
		results = append(results, CheckFileExists("Chapter file", cfg.Mux.ChaptersFile))
	}

	results = append(results, CheckBinary("mkvmerge", cfg.MkvmergeBinary()))
	return results
}

// CheckDirectoryAccess verifies that a source directory exists and can be
// read and listed. Source trees may live on read-only mounts, so writability
// is not required; the output directory is created (and thus write-checked)
// at mux time.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckFileExists verifies that a configured input file is present.
func CheckFileExists(name, path string) Result {
	if !fileutil.Exists(path) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckBinary verifies that an external binary the pipeline shells out to is
// available on PATH (or at the configured location).
func CheckBinary(name, command string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", command)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
