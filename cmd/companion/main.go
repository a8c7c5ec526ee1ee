// Package main provides the blind-box collector companion CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/blindbox-companion/internal/catalog"
	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/config"
	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
	"github.com/yourusername/blindbox-companion/internal/render"
	"github.com/yourusername/blindbox-companion/internal/session"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile     string
	collectionFile string
	catalogPath    string
	dumpMetrics    bool
	plainOutput    bool
	seedOwned      bool
	refreshFeeds   bool
	baseLogger     *logrus.Logger
	feedCache      *datasource.Cache
	cacheFile      string
	cfg            *config.Config
	styles         render.Styles
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&collectionFile, "collection", "", "Collection CSV merged into the session at start")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Read the master catalog from a local CSV instead of the configured source")
	rootCmd.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "Write data-quality metrics to stderr on exit")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false, "Disable colors and borders")
	rootCmd.PersistentFlags().BoolVar(&seedOwned, "seed-owned", false, "Mark figures with a catalog quantity as owned")
	rootCmd.PersistentFlags().BoolVar(&refreshFeeds, "refresh", false, "Ignore cached feeds and download them again")

	rootCmd.AddCommand(browseCmd, collectionCmd, targetsCmd, estimateCmd, rosterCmd, cacheCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Track a blind-box figure collection and estimate draw odds",
	Long: `Loads the master figure catalog, reconciles your collection from CSV uploads
and ownership toggles, and estimates the chance of pulling the figures you want.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		baseLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		metrics.InitRegistry()
		styles = render.DefaultStyles()
		if plainOutput {
			styles = render.PlainStyles()
		}
		openFeedCache()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		saveFeedCache()
		if !dumpMetrics && !cfg.Metrics.Enabled {
			return nil
		}
		return metrics.WriteText(os.Stderr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "companion %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadStrict(configFile)
	} else {
		cfg, err = config.Load(configFile)
	}
	if err != nil {
		return err
	}

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
		cfg.Catalog.URL = ""
	}
	if seedOwned {
		cfg.Catalog.SeedOwned = true
	}
	return config.Validate(cfg)
}

// openFeedCache creates the cache shared by every feed load of this run and
// fills it from the cache file. A broken cache file only costs a download.
func openFeedCache() {
	feedCache = datasource.NewCache(cfg.CacheTTL())
	cacheFile = cfg.Catalog.CacheFile
	if cacheFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			baseLogger.WithError(err).Debug("No user cache directory, feeds are not kept between runs")
			return
		}
		cacheFile = filepath.Join(dir, "blindbox-companion", "feeds.json")
	}
	if err := feedCache.LoadFile(cacheFile); err != nil {
		baseLogger.WithError(err).Warn("Ignoring unreadable feed cache")
	}
}

func saveFeedCache() {
	if cacheFile == "" {
		return
	}
	if err := feedCache.SaveFile(cacheFile); err != nil {
		baseLogger.WithError(err).Warn("Failed to save feed cache")
	}
}

// refreshed drops the cached feed of src when --refresh is set.
func refreshed(src datasource.CatalogSource) datasource.CatalogSource {
	if refreshFeeds {
		feedCache.Invalidate(src.Location())
	}
	return src
}

// openSession loads the catalog and the optional collection file. A catalog
// load failure is reported and the session carries on with an empty catalog.
func openSession(ctx context.Context) (*session.Session, error) {
	factory := datasource.NewFactory(cfg, baseLogger)
	defer factory.Close()

	src, err := factory.NewSource(cfg.Catalog.URL, cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	loader := catalog.NewLoader(feedCache, baseLogger)
	res, err := loader.Load(ctx, refreshed(src))
	if err != nil {
		var loadErr *catalog.LoadError
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		baseLogger.WithError(err).Warn("Master catalog unavailable, continuing with an empty catalog")
	}
	if len(res.Rejections) > 0 {
		baseLogger.WithField("rejected", len(res.Rejections)).Warn("Some catalog rows were dropped")
	}

	sess := session.New(res.Catalog, nil, baseLogger)
	if cfg.Catalog.SeedOwned {
		if _, err := sess.SeedOwned(); err != nil {
			return nil, fmt.Errorf("failed to seed ownership: %w", err)
		}
	}

	if collectionFile != "" {
		report, err := importCollection(ctx, sess, collectionFile)
		if err != nil {
			return nil, err
		}
		logRejections(report)
	}
	return sess, nil
}

func importCollection(ctx context.Context, sess *session.Session, path string) (collection.ImportReport, error) {
	table, err := datasource.NewFileCSVSource(path).Fetch(ctx)
	if err != nil {
		return collection.ImportReport{}, fmt.Errorf("failed to read collection %s: %w", path, err)
	}
	report, err := sess.Reconciler().ImportTable(collection.NewImporter(baseLogger), table)
	if err != nil {
		return collection.ImportReport{}, fmt.Errorf("failed to import collection %s: %w", path, err)
	}
	return report, nil
}

func logRejections(report collection.ImportReport) {
	for _, rej := range report.Rejections {
		baseLogger.WithField("batch_id", report.BatchID).Warn(rej.String())
	}
}
