package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/catalog"
	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/models"
	"github.com/yourusername/blindbox-companion/internal/render"
)

var (
	addName     string
	addLine     string
	addSeries   string
	addPrice    string
	addQuantity int
	addDate     string
	addSource   string
)

func init() {
	collectionImportCmd.Flags().StringVar(&exportPath, "export", "", "Write the reconciled collection to this CSV path (- for stdout)")
	collectionAddCmd.Flags().StringVar(&exportPath, "export", "", "Write the reconciled collection to this CSV path (- for stdout)")

	collectionAddCmd.Flags().StringVar(&addName, "name", "", "Figure name")
	collectionAddCmd.Flags().StringVar(&addLine, "line", "", "Line, e.g. Peach Riot")
	collectionAddCmd.Flags().StringVar(&addSeries, "series", "", "Series, e.g. Rise Up")
	collectionAddCmd.Flags().StringVar(&addPrice, "price", "", "Price paid per figure")
	collectionAddCmd.Flags().IntVar(&addQuantity, "qty", 1, "Quantity owned")
	collectionAddCmd.Flags().StringVar(&addDate, "date", "", "Date acquired (YYYY-MM-DD)")
	collectionAddCmd.Flags().StringVar(&addSource, "source", string(models.SourceManual), "Source: manual, marked-owned or imported")
	for _, f := range []string{"name", "line", "series", "price"} {
		_ = collectionAddCmd.MarkFlagRequired(f)
	}

	collectionCmd.AddCommand(collectionImportCmd, collectionExportCmd, collectionStatsCmd, collectionAddCmd, collectionListCmd)
}

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Import, export and summarize your collection",
}

var collectionImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Merge a collection CSV; later rows win",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		report, err := importCollection(cmd.Context(), sess, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Applied %d rows, rejected %d (batch %s)\n", report.Applied, len(report.Rejections), report.BatchID)
		for _, rej := range report.Rejections {
			fmt.Fprintln(out, styles.Warning.Render("  "+rej.String()))
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, render.Collection(styles, sess.Reconciler().Owned()))
		return exportCollection(out, sess, exportPath)
	},
}

var collectionExportCmd = &cobra.Command{
	Use:   "export <file.csv|->",
	Short: "Write the reconciled collection as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		return exportCollection(cmd.OutOrStdout(), sess, args[0])
	},
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show figures with a quantity above zero",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), render.Collection(styles, sess.Reconciler().Owned()))
		return nil
	},
}

var collectionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Totals, average cost and price distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		owned := sess.Reconciler().Owned()
		out := cmd.OutOrStdout()
		if len(owned) == 0 {
			fmt.Fprintln(out, styles.Muted.Render("No figures with quantity above zero; nothing to summarize."))
			return nil
		}
		fmt.Fprint(out, render.Stats(styles, collection.ComputeStats(owned)))
		return nil
	},
}

var collectionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a figure by hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}

		price, err := catalog.ParsePrice(addPrice)
		if err != nil {
			return err
		}
		source, err := models.ParseSource(addSource)
		if err != nil {
			return fmt.Errorf("%q: %w", addSource, err)
		}
		if addQuantity < 1 {
			return fmt.Errorf("quantity must be at least 1")
		}
		update := models.OwnershipUpdate{
			ItemName:      addName,
			Line:          models.StringPtr(addLine),
			Series:        models.StringPtr(addSeries),
			Quantity:      models.IntPtr(addQuantity),
			UnitPricePaid: models.DecimalPtr(price),
			Source:        models.SourcePtr(source),
		}
		if addDate != "" {
			t, err := time.Parse("2006-01-02", addDate)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", addDate, err)
			}
			update.AcquiredAt = &t
		}

		rec, err := sess.Reconciler().Add(update)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("Saved %s (quantity %d)", rec.ItemName, rec.Quantity)))
		fmt.Fprint(out, render.Collection(styles, sess.Reconciler().Owned()))
		return exportCollection(out, sess, exportPath)
	},
}
