package cmd

import (
	"log"
	"time"

	"github.com/rfpqueen/grant-scout/internal/opportunity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "grant-scout"
)

type Config struct {
	Firestore        *FirestoreConfig `mapstructure:"firestore"`
	Profile          *ProfileConfig   `mapstructure:"profile"`
	Crawler          *CrawlerConfig   `mapstructure:"crawler"`
	ExcludeFile      string           `mapstructure:"exclude-file"`
	InteractionsFile string           `mapstructure:"interactions-file"`
	UserAgent        string           `mapstructure:"user-agent"`
}

type FirestoreConfig struct {
	ProjectID       string   `mapstructure:"project-id"`
	CredentialsFile string   `mapstructure:"credentials-file"`
	Collections     []string `mapstructure:"collections"`
	Limit           int      `mapstructure:"limit"`
	StoreMatches    bool     `mapstructure:"store-matches"`
}

type ProfileConfig struct {
	UID             string   `mapstructure:"uid"`
	MainKeywords    []string `mapstructure:"main-keywords"`
	SubKeywords     []string `mapstructure:"sub-keywords"`
	FundingTypes    []string `mapstructure:"funding-types"`
	Location        string   `mapstructure:"location"`
	AnnualBudgetUSD int      `mapstructure:"annual-budget-usd"`
}

type CrawlerConfig struct {
	MaxDepth       int `mapstructure:"max-depth"`
	TimeoutSeconds int `mapstructure:"timeout-seconds"`
	FetchDelayMS   int `mapstructure:"fetch-delay-ms"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "grant-scout is a cli for discovering grant and RFP opportunities matching your organization profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("firestore.credentials-file", "FIRESTORE_CREDENTIALS_FILE"); err != nil {
		log.Fatalf("binding FIRESTORE_CREDENTIALS_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is grant-scout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run and sync commands. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" && syncCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

// fallbackProfile builds a profile from the config file values.
func (c *ProfileConfig) fallbackProfile() *opportunity.Profile {
	if c == nil {
		return &opportunity.Profile{}
	}

	profile := &opportunity.Profile{
		ID:              c.UID,
		MainKeywords:    c.MainKeywords,
		SubKeywords:     c.SubKeywords,
		FundingTypes:    c.FundingTypes,
		Location:        c.Location,
		AnnualBudgetUSD: c.AnnualBudgetUSD,
	}
	profile.Normalize()
	return profile
}

func (c *CrawlerConfig) maxDepth() int {
	if c == nil || c.MaxDepth <= 0 {
		return 2
	}
	return c.MaxDepth
}

func (c *CrawlerConfig) timeout() time.Duration {
	if c == nil || c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *CrawlerConfig) fetchDelay() time.Duration {
	if c == nil || c.FetchDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.FetchDelayMS) * time.Millisecond
}
