package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/render"
	"github.com/yourusername/blindbox-companion/internal/session"
)

var targetsCmd = &cobra.Command{
	Use:   "targets <figure>...",
	Short: "Show ownership status for the figures you want",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		reportUnresolved(cmd, sess, args)
		fmt.Fprint(out, render.Targets(styles, sess.TargetOverview()))

		if unowned := sess.UnownedTargets(); len(unowned) > 0 {
			names := make([]string, 0, len(unowned))
			for _, it := range unowned {
				names = append(names, it.Name)
			}
			fmt.Fprintln(out, styles.Muted.Render("Still missing: "+strings.Join(names, ", ")))
		}
		return nil
	},
}

// reportUnresolved sets the session targets and warns about names the
// catalog does not know.
func reportUnresolved(cmd *cobra.Command, sess *session.Session, names []string) {
	for _, name := range sess.SetTargets(names...) {
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Warning.Render(fmt.Sprintf("%q is not in the catalog", name)))
	}
}
