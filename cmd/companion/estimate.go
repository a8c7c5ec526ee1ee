package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/estimator"
	"github.com/yourusername/blindbox-companion/internal/render"
	"github.com/yourusername/blindbox-companion/internal/session"
)

var (
	estimateTargets []string
	estimateSeries  string
	estimateDraws   int
	estimateBound   int
	curveHeight     int
)

func init() {
	estimateCmd.Flags().StringSliceVarP(&estimateTargets, "targets", "t", nil, "Figures you want (required)")
	estimateCmd.Flags().StringVarP(&estimateSeries, "series", "s", "", "Series to draw from (default: every series holding a target)")
	estimateCmd.Flags().IntVarP(&estimateDraws, "draws", "n", 0, "Boxes to buy (default from config)")
	estimateCmd.Flags().IntVar(&estimateBound, "bound", 0, "Upper bound of the probability curve (default from config)")
	estimateCmd.Flags().IntVar(&curveHeight, "height", 11, "Rows of the curve chart")
	_ = estimateCmd.MarkFlagRequired("targets")
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Chance of pulling at least one wanted figure in N boxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		if sess.Catalog().IsEmpty() {
			return estimator.ErrEmptyCatalog
		}

		draws := estimateDraws
		if !cmd.Flags().Changed("draws") {
			draws = cfg.Estimator.DefaultDraws
		}
		bound := estimateBound
		if !cmd.Flags().Changed("bound") {
			bound = cfg.Estimator.CurveBound
		}
		if draws < 0 {
			return estimator.ErrNegativeDraws
		}

		reportUnresolved(cmd, sess, estimateTargets)

		series := []string{estimateSeries}
		if estimateSeries == "" {
			series = sess.TargetSeries()
		}
		if len(series) == 0 {
			return estimator.ErrNoTargets
		}

		out := cmd.OutOrStdout()
		for i, sr := range series {
			if i > 0 {
				fmt.Fprintln(out)
			}
			analysis, err := sess.Analyze(sr, draws, bound)
			if errors.Is(err, session.ErrAllTargetsOwned) {
				fmt.Fprintln(out, styles.Success.Render(fmt.Sprintf("You already own every target in %s.", sr)))
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprint(out, render.Estimate(styles, analysis.Estimate))
			fmt.Fprint(out, render.Curve(styles, analysis.Curve, curveHeight))
		}
		return nil
	},
}
