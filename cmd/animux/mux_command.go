package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"animux/internal/episodes"
	"animux/internal/history"
	"animux/internal/logging"
	"animux/internal/metadata"
	"animux/internal/mux"
	"animux/internal/preflight"
	"animux/internal/services"
	"animux/internal/services/mkvmerge"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var (
		releaseGroup string
		dryRun       bool
		version      int
	)

	cmd := &cobra.Command{
		Use:   "mux <episodes> [output-dir]",
		Short: "Mux one or more episodes",
		Long: `Mux resolves the premux, audio, and subtitle inputs for each requested
episode and assembles the release container with mkvmerge.

The episodes argument accepts a single number ("3"), a range ("1-6"), a
comma-separated list ("1,3-5,movie"), or "all" to pick up every numbered
subtitle file.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			for _, check := range []preflight.Result{
				preflight.CheckDirectoryAccess("premux directory", cfg.Show.PremuxDir),
				preflight.CheckDirectoryAccess("subtitle directory", cfg.Show.SubtitleDir),
				preflight.CheckDirectoryAccess("audio directory", cfg.Show.AudioDir),
			} {
				if !check.Passed {
					return fmt.Errorf("%s: %s", check.Name, check.Detail)
				}
			}

			eps, err := episodes.Parse(args[0], cfg.Show.SubtitleDir, episodes.DirLister{})
			if err != nil {
				if services.IsInvalidSpec(err) {
					return fmt.Errorf(`%w (accepted forms: "3", "1-6", "1,3-5,movie", "all")`, err)
				}
				return err
			}
			if len(eps) == 0 {
				return fmt.Errorf("no episodes matched %q", args[0])
			}

			outDir := cfg.Mux.OutputDir
			if len(args) == 2 {
				outDir = args[1]
			}
			if outDir == "" {
				outDir = "muxed"
			}

			if !dryRun {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("create output directory %q: %w", outDir, err)
				}
				lock := flock.New(filepath.Join(outDir, ".animux.lock"))
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire batch lock: %w", err)
				}
				if !ok {
					return fmt.Errorf("another batch is already writing to %s", outDir)
				}
				defer func() { _ = lock.Unlock() }()
			}

			runID := uuid.NewString()
			runCtx := services.WithRunID(cmd.Context(), runID)

			var store *history.Store
			if cfg.History.Enabled && !dryRun {
				store, err = history.Open(cfg)
				if err != nil {
					logger.Warn("history unavailable, continuing without it", logging.Error(err))
					store = nil
				} else {
					defer func() { _ = store.Close() }()
					if err := store.BeginRun(runCtx, runID, args[0], dryRun); err != nil {
						logger.Warn("history begin failed", logging.Error(err))
					}
				}
			}

			client := mkvmerge.NewClient(cfg.MkvmergeBinary(), logger)
			orchestrator := mux.New(cfg, client, mux.Options{
				OutputDir:    outDir,
				ReleaseGroup: releaseGroup,
				DryRun:       dryRun,
				Version:      version,
			}, logger)

			if cfg.Show.TMDBID > 0 && cfg.TMDB.APIKey != "" {
				mdc, err := metadata.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.ImageBaseURL, cfg.TMDB.Language)
				if err != nil {
					logger.Warn("metadata client unavailable", logging.Error(err))
				} else {
					orchestrator.WithMetadataClient(mdc)
				}
			}

			var assets mux.Assets
			if !dryRun {
				assets = orchestrator.PrepareAssets(runCtx)
			}

			logger.Info("starting batch",
				logging.String(logging.FieldRunID, runID),
				logging.String("spec", args[0]),
				logging.Int(logging.FieldEpisodeCount, len(eps)),
				logging.Bool("dry_run", dryRun),
			)

			results := make([]mux.Result, 0, len(eps))
			succeeded := 0
			for i, ep := range eps {
				epCtx := services.WithEpisode(runCtx, ep.String())
				logger.Info("muxing episode",
					logging.String(logging.FieldEpisode, ep.String()),
					logging.Int(logging.FieldEpisodeIndex, i+1),
					logging.Int(logging.FieldEpisodeCount, len(eps)),
				)
				result := orchestrator.MuxEpisode(epCtx, ep, assets)
				if result.Err != nil && !services.IsEpisodeFailure(result.Err) {
					return result.Err
				}
				if result.Success() {
					succeeded++
				}
				if store != nil {
					if err := store.RecordResult(runCtx, history.Result{
						RunID:      runID,
						Episode:    result.Episode,
						Success:    result.Success(),
						OutputPath: result.OutputPath,
						Message:    result.Message(),
						Duration:   result.Duration,
					}); err != nil {
						logger.Warn("history record failed", logging.Error(err))
					}
				}
				results = append(results, result)
			}
			if store != nil {
				if err := store.FinishRun(runCtx, runID, len(results), succeeded); err != nil {
					logger.Warn("history finish failed", logging.Error(err))
				}
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				output := "-"
				if r.OutputPath != "" {
					output = filepath.Base(r.OutputPath)
				}
				rows = append(rows, []string{
					r.Episode,
					resultStatus(r),
					output,
					r.Message(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Episode", "Status", "Output", "Message"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Processed %d episode(s), %d succeeded\n", len(results), succeeded)

			if succeeded != len(results) {
				return fmt.Errorf("%d of %d episodes failed", len(results)-succeeded, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&releaseGroup, "flag", "f", "", "Release group tag for output names (defaults to configuration)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Resolve inputs and report without invoking mkvmerge")
	cmd.Flags().IntVarP(&version, "version", "v", 1, "Release version; v2 and above add a suffix to output names")
	return cmd
}

func resultStatus(r mux.Result) string {
	switch {
	case !r.Success():
		return "FAILED"
	case r.DryRun:
		return "DRY RUN"
	default:
		return "OK"
	}
}
