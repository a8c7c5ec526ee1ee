package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/render"
	"github.com/yourusername/blindbox-companion/internal/roster"
)

var (
	rosterFilter roster.Filter
	rosterPlayer string
	rosterPath   string
)

func init() {
	rosterCmd.Flags().StringVar(&rosterFilter.Team, "team", "", "Only players of this team")
	rosterCmd.Flags().StringVar(&rosterFilter.Nation, "nation", "", "Only players of this nation")
	rosterCmd.Flags().StringVar(&rosterFilter.Position, "position", "", "Only players in this position code, e.g. ST")
	rosterCmd.Flags().IntVar(&rosterFilter.MinOVR, "min-ovr", 0, "Minimum overall rating")
	rosterCmd.Flags().IntVar(&rosterFilter.MaxOVR, "max-ovr", 0, "Maximum overall rating (0 = no maximum)")
	rosterCmd.Flags().StringVar(&rosterPlayer, "player", "", "Show the detail card of one player")
	rosterCmd.Flags().StringVar(&rosterPath, "path", "", "Read the roster from a local CSV instead of the configured source")
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Browse and filter the player roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, path := cfg.Roster.URL, cfg.Roster.Path
		if rosterPath != "" {
			url, path = "", rosterPath
		}

		factory := datasource.NewFactory(cfg, baseLogger)
		defer factory.Close()
		src, err := factory.NewSource(url, path)
		if err != nil {
			return fmt.Errorf("roster source: %w", err)
		}
		r, err := roster.Load(cmd.Context(), datasource.NewCachedSource(refreshed(src), feedCache), baseLogger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if rosterPlayer != "" {
			p, ok := r.Find(rosterPlayer)
			if !ok {
				return fmt.Errorf("player %q not found", rosterPlayer)
			}
			fmt.Fprint(out, render.Player(styles, p))
			return nil
		}

		if lo, hi, ok := r.OVRRange(); ok {
			fmt.Fprintln(out, styles.Muted.Render(fmt.Sprintf("%d players, OVR %d-%d", r.Len(), lo, hi)))
		}
		fmt.Fprint(out, render.Roster(styles, r.Filter(rosterFilter)))
		return nil
	},
}
