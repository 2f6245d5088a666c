package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"animux/internal/episodes"
	"animux/internal/resolve"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes [spec]",
		Short: "List the episodes a specification expands to",
		Long: `Episodes expands a specification the same way mux does and reports the
premux and audio files each episode would use. Without an argument it
lists everything the subtitle directory provides ("all").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			spec := "all"
			if len(args) == 1 {
				spec = args[0]
			}
			eps, err := episodes.Parse(spec, cfg.Show.SubtitleDir, episodes.DirLister{})
			if err != nil {
				return err
			}
			if len(eps) == 0 {
				return fmt.Errorf("no episodes matched %q", spec)
			}

			locator := resolve.NewLocator()
			rows := make([][]string, 0, len(eps))
			for _, ep := range eps {
				video := "-"
				if path, err := locator.FindVideo(ep.String(), cfg); err == nil {
					video = path
				}
				audio := "-"
				if path, err := locator.FindAudio(ep.String(), cfg); err == nil {
					audio = path
				}
				rows = append(rows, []string{ep.String(), video, audio})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Episode", "Video", "Audio"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
