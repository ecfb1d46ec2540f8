package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rfpqueen/grant-scout/internal/appfinder"
	"github.com/rfpqueen/grant-scout/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <url>",
	Short: "Crawl a page looking for the application entry point",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		discover(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().Int("max-depth", 2, "maximum crawl depth (0 = starting page only)")
	discoverCmd.Flags().Int("timeout", 10, "per-fetch timeout in seconds")
}

func discover(cmd *cobra.Command, url string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	timeout, _ := cmd.Flags().GetInt("timeout")

	finder := appfinder.New(logger)
	finder.MaxDepth = maxDepth
	finder.HTTPClient = &http.Client{Timeout: time.Duration(timeout) * time.Second}

	result := finder.Discover(context.Background(), url)

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("encoding result", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
