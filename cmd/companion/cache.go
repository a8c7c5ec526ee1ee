package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cacheCmd.AddCommand(cacheInfoCmd, cacheClearCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the downloaded feed cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show where feeds are cached and how many are fresh",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !feedCache.Enabled() || cacheFile == "" {
			fmt.Fprintln(out, styles.Muted.Render("Feed cache is disabled."))
			return
		}
		fmt.Fprintf(out, "Cache file: %s\n", cacheFile)
		fmt.Fprintf(out, "Fresh feeds: %d (ttl %s)\n", feedCache.Len(), cfg.CacheTTL())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every cached feed",
	Run: func(cmd *cobra.Command, args []string) {
		n := feedCache.Len()
		feedCache.Clear()
		fmt.Fprintln(cmd.OutOrStdout(), styles.Success.Render(fmt.Sprintf("Cleared %d cached feeds.", n)))
	},
}
