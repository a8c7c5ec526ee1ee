package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/render"
	"github.com/yourusername/blindbox-companion/internal/session"
)

var (
	browseLine   string
	browseSeries []string
	markFlags    []string
	unmarkFlags  []string
	exportPath   string
)

func init() {
	browseCmd.Flags().StringVar(&browseLine, "line", "", "Line to browse (default: every line)")
	browseCmd.Flags().StringSliceVar(&browseSeries, "series", nil, "Series of the line to show (default: all)")
	browseCmd.Flags().StringArrayVar(&markFlags, "mark", nil, "Mark a figure owned, as name or name=quantity (repeatable)")
	browseCmd.Flags().StringArrayVar(&unmarkFlags, "unmark", nil, "Mark a figure not owned (repeatable)")
	browseCmd.Flags().StringVar(&exportPath, "export", "", "Write the reconciled collection to this CSV path (- for stdout)")
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse catalog figures and toggle ownership",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if sess.Catalog().IsEmpty() {
			fmt.Fprintln(out, styles.Warning.Render("Master catalog could not be loaded or is empty."))
			return nil
		}

		if err := applyToggles(sess); err != nil {
			return err
		}

		if browseLine != "" {
			if len(browseSeries) == 0 {
				err = sess.SelectAllSeries(browseLine)
			} else {
				err = sess.SelectSeries(browseLine, browseSeries...)
			}
			if err != nil {
				return err
			}
		} else {
			for _, line := range sess.Catalog().Lines() {
				if err := sess.SelectAllSeries(line); err != nil {
					return err
				}
			}
		}

		items := sess.ManagedItems()
		title := fmt.Sprintf("%d figures", len(items))
		fmt.Fprint(out, render.Catalog(styles, title, items, sess.Reconciler().Quantity))

		if len(markFlags) > 0 || len(unmarkFlags) > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, render.Collection(styles, sess.Reconciler().Owned()))
		}
		return exportCollection(out, sess, exportPath)
	},
}

func applyToggles(sess *session.Session) error {
	for _, m := range markFlags {
		name, qty, err := parseMark(m)
		if err != nil {
			return err
		}
		if _, err := sess.MarkOwned(name, qty); err != nil {
			return err
		}
	}
	for _, name := range unmarkFlags {
		if _, err := sess.Unmark(strings.TrimSpace(name)); err != nil {
			return err
		}
	}
	return nil
}

// parseMark reads "name" or "name=quantity". Names may contain "=", so the
// last one separates the quantity.
func parseMark(s string) (string, int, error) {
	i := strings.LastIndex(s, "=")
	if i < 0 {
		return strings.TrimSpace(s), 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return strings.TrimSpace(s), 1, nil
	}
	if qty < 0 {
		return "", 0, fmt.Errorf("invalid quantity in %q", s)
	}
	return strings.TrimSpace(s[:i]), qty, nil
}

// exportCollection writes the reconciled collection to path; "-" means out.
func exportCollection(out io.Writer, sess *session.Session, path string) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return collection.Export(out, sess.Reconciler().Records())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := collection.Export(f, sess.Reconciler().Records()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
