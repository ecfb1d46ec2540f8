package cmd

import (
	"context"
	"log"

	"github.com/rfpqueen/grant-scout/internal/firestore"
	"github.com/rfpqueen/grant-scout/internal/logger"
	"github.com/rfpqueen/grant-scout/internal/opportunity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync opportunities from Firestore into a local snapshot file",
	Run: func(cmd *cobra.Command, _ []string) {
		sync(cmd)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Int("limit", 1000, "maximum number of opportunities to sync per collection")
	syncCmd.Flags().StringSlice("collections", nil, "collections to sync from (default is all known collections)")
	syncCmd.Flags().StringP("out", "o", "opportunities.json", "snapshot file to write")
}

func sync(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	_, client, err := buildSource(ctx, config, "", logger)
	if err != nil {
		logger.Fatal("connecting to firestore", zap.Error(err))
	}
	defer client.Close()

	collections, _ := cmd.Flags().GetStringSlice("collections")
	if len(collections) == 0 {
		collections = firestore.DefaultCollections
		if config.Firestore != nil && len(config.Firestore.Collections) > 0 {
			collections = config.Firestore.Collections
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.Flag("out").Value.String()

	logger.Info("syncing opportunities",
		zap.Strings("collections", collections),
		zap.Int("limit_per_collection", limit),
	)

	// One failing collection should not sink the snapshot; fetch them one by
	// one and keep what succeeds.
	all := &opportunity.Opportunities{}
	failed := 0
	for _, name := range collections {
		opps, err := client.FetchCollection(ctx, name, limit)
		if err != nil {
			logger.Warn("skipping collection", zap.String("collection", name), zap.Error(err))
			failed++
			continue
		}
		all.Items = append(all.Items, opps.Items...)
	}

	if failed == len(collections) {
		logger.Fatal("all collections failed to sync")
	}

	deduped := all.Dedupe()

	if err := firestore.WriteSnapshot(out, all); err != nil {
		logger.Fatal("writing snapshot", zap.Error(err))
	}

	logger.Info("snapshot written",
		zap.String("path", out),
		zap.Int("count", all.Len()),
		zap.Int("duplicates_dropped", deduped),
		zap.Int("failed_collections", failed),
	)
}
