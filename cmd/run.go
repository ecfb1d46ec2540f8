package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/rfpqueen/grant-scout/internal/appfinder"
	"github.com/rfpqueen/grant-scout/internal/filtering"
	"github.com/rfpqueen/grant-scout/internal/firestore"
	"github.com/rfpqueen/grant-scout/internal/logger"
	"github.com/rfpqueen/grant-scout/internal/matching"
	"github.com/rfpqueen/grant-scout/internal/opportunity"
	"github.com/rfpqueen/grant-scout/internal/secrets"
	"github.com/rfpqueen/grant-scout/internal/utils"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptReview         = "Review matches one by one"
	PromptReportByAgency = "Report by agency"
	PromptMatchesToFile  = "Dump matches to file"
	PromptOppsToFile     = "Dump opportunities to file"
	PromptExit           = "Exit"

	PromptApply = "Apply"
	PromptSave  = "Save"
	PromptPass  = "Pass"
	PromptSkip  = "Skip"
	PromptBack  = "Back to menu"

	defaultInteractionsFile = "grant-scout-interactions.json"
)

var errExit = errors.New("exit requested")

var mainPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReview, PromptReportByAgency, PromptMatchesToFile, PromptOppsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the grant-scout main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("include-seen", "f", false, "do not exclude opportunities already applied to or passed on")
	runCmd.Flags().Bool("include-closed", false, "do not exclude opportunities past their deadline")
	runCmd.Flags().BoolP("auto-approve", "y", false, "print ranked matches without the interactive prompt")
	runCmd.Flags().StringP("exclude-file", "e", "", "special file with opportunities to exclude. Default is unset.")
	runCmd.Flags().String("offline", "", "read opportunities from a sync snapshot file instead of Firestore")

	viper.BindPFlag("exclude-file", runCmd.Flags().Lookup("exclude-file"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the grant-scout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	offlineFile := cmd.Flag("offline").Value.String()

	source, client, err := buildSource(ctx, config, offlineFile, logger)
	if err != nil {
		logger.Fatal("building opportunity source", zap.Error(err),
			zap.String("hint", "set FIRESTORE_CREDENTIALS_FILE or firestore.credentials-file, or pass --offline <snapshot>"),
		)
	}
	if client != nil {
		defer client.Close()
	}

	profile := resolveProfile(ctx, source, config, logger)
	if len(profile.MainKeywords) == 0 && len(profile.SubKeywords) == 0 {
		logger.Fatal("profile keywords are required to match opportunities",
			zap.String("hint", "set profile.main-keywords in the configuration file or fill the Firestore profile"),
		)
	}

	opps, err := getOpportunities(ctx, source, profile, config, logger)
	if err != nil {
		logger.Fatal("getting available opportunities", zap.Error(err))
	}

	if opps.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no opportunities found"))
		return
	}

	interactionsFile := config.InteractionsFile
	if interactionsFile == "" {
		interactionsFile = defaultInteractionsFile
	}

	interactions, err := opportunity.GetInteractionsFromFile(interactionsFile)
	if err != nil {
		logger.Fatal("loading interactions file", zap.Error(err), zap.String("path", interactionsFile))
	}

	filtered, err := runFilters(ctx, cmd, config, interactions, opps, logger)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	opps = filtered

	if opps.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no opportunities left after filters"))
		return
	}

	var store matching.Store = matching.NewMemoryStore()
	if client != nil && config.Firestore != nil && config.Firestore.StoreMatches {
		store = firestore.NewMatchStore(client)
	}

	matches := matching.NewRanker(store, logger).Rank(ctx, profile, opps)
	if len(matches) == 0 {
		logger.Info("exiting", zap.String("reason", "no opportunities matched profile keywords"))
		return
	}

	logger.Info("matching finished", zap.Int("count", len(matches)))

	if cmd.Flag("auto-approve").Value.String() == "true" {
		printMatches(matches)
		return
	}

	session := &reviewSession{
		finder:           newFinder(config, logger),
		cache:            appfinder.NewCache(),
		interactions:     interactions,
		interactionsFile: interactionsFile,
		logger:           logger,
	}

	for {
		_, action, err := mainPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := session.handleAction(ctx, action, matches); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// buildSource picks the opportunity source: a snapshot file when --offline is
// set, otherwise a Firestore client built from the configured credentials.
func buildSource(ctx context.Context, config *Config, offlineFile string, logger *zap.Logger) (firestore.Source, *firestore.Client, error) {
	if offlineFile != "" {
		logger.Info("using offline snapshot", zap.String("path", offlineFile))
		source, err := firestore.LoadSnapshot(offlineFile)
		return source, nil, err
	}

	if config.Firestore == nil || config.Firestore.ProjectID == "" {
		return nil, nil, errors.New("firestore.project-id is required for online mode")
	}

	var credentials string
	if config.Firestore.CredentialsFile != "" || viper.GetString("firestore.credentials-file") != "" {
		file := config.Firestore.CredentialsFile
		if file == "" {
			file = viper.GetString("firestore.credentials-file")
		}

		var err error
		credentials, err = secrets.Load(secrets.Source{
			Name: "firestore service account",
			File: file,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	client, err := firestore.New(ctx, config.Firestore.ProjectID, []byte(credentials), logger)
	if err != nil {
		return nil, nil, err
	}

	return client, client, nil
}

// resolveProfile merges the Firestore profile (when a uid is configured and
// the source is online) with the fallback declared in the config file.
func resolveProfile(ctx context.Context, source firestore.Source, config *Config, logger *zap.Logger) *opportunity.Profile {
	fallback := config.Profile.fallbackProfile()

	uid := ""
	if config.Profile != nil {
		uid = strings.TrimSpace(config.Profile.UID)
	}
	if uid == "" {
		return fallback
	}

	remote, err := source.FetchProfile(ctx, uid)
	if err != nil {
		logger.Warn("falling back to config profile", zap.String("uid", uid), zap.Error(err))
		return fallback
	}

	remote.Merge(fallback)
	remote.Normalize()
	return remote
}

// getOpportunities returns opportunities from the collections implied by the
// profile's funding type preferences, or all configured collections when the
// profile has no preference.
func getOpportunities(ctx context.Context, source firestore.Source, profile *opportunity.Profile, config *Config, logger *zap.Logger) (*opportunity.Opportunities, error) {
	collections := matching.CollectionsForFundingTypes(profile.FundingTypes)
	if len(collections) == 0 {
		collections = firestore.DefaultCollections
		if config.Firestore != nil && len(config.Firestore.Collections) > 0 {
			collections = config.Firestore.Collections
		}
	}

	limit := 0
	if config.Firestore != nil {
		limit = config.Firestore.Limit
	}

	opps, err := firestore.FetchCollections(ctx, source, collections, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}

	logger.Info("getting opportunities",
		zap.Strings("collections", collections),
		zap.Int("count", opps.Len()),
	)
	return opps, nil
}

func runFilters(ctx context.Context, cmd *cobra.Command, config *Config, interactions *opportunity.Interactions, opps *opportunity.Opportunities, logger *zap.Logger) (*opportunity.Opportunities, error) {
	includeSeen := false
	if flag := cmd.Flag("include-seen"); flag != nil && strings.EqualFold(flag.Value.String(), "true") {
		includeSeen = true
	}

	fundingTypes := []string{}
	if config.Profile != nil {
		fundingTypes = config.Profile.FundingTypes
	}

	cfg := &filtering.Config{
		FundingTypes: fundingTypes,
		ExcludeFile:  viper.GetString("exclude-file"),
		IncludeSeen:  includeSeen,
	}

	deps := filtering.Deps{
		Logger:       logger,
		Interactions: interactions,
	}

	steps := []filtering.Filter{
		filtering.NewCollection(),
		filtering.NewClosed(),
		filtering.NewInteractionHistory(),
		filtering.NewExcludeFile(),
	}

	if flag := cmd.Flag("include-closed"); flag != nil && strings.EqualFold(flag.Value.String(), "true") {
		filtering.DisableByName(steps, "closed", "include-closed flag is set")
	}

	filtered, err := filtering.Run(ctx, cfg, deps, steps, opps)
	if err != nil {
		return nil, err
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filtered, nil
}

func newFinder(config *Config, logger *zap.Logger) *appfinder.Finder {
	finder := appfinder.New(logger)
	finder.MaxDepth = config.Crawler.maxDepth()
	finder.FetchDelay = config.Crawler.fetchDelay()
	finder.HTTPClient = &http.Client{Timeout: config.Crawler.timeout()}
	if config.UserAgent != "" {
		finder.UserAgent = config.UserAgent
	}
	return finder
}

type reviewSession struct {
	finder           *appfinder.Finder
	cache            *appfinder.Cache
	interactions     *opportunity.Interactions
	interactionsFile string
	logger           *zap.Logger
}

func (s *reviewSession) handleAction(ctx context.Context, action string, matches []*matching.MatchResult) error {
	switch action {
	case PromptReview:
		return s.review(ctx, matches)
	case PromptReportByAgency:
		opps := &opportunity.Opportunities{}
		for _, m := range matches {
			opps.Items = append(opps.Items, m.Opportunity)
		}
		pretty, _ := json.MarshalIndent(opps.ReportByAgency(), "", "  ")
		s.logger.Info(string(pretty), zap.Int("matches count", len(matches)))
		return nil
	case PromptMatchesToFile:
		filename, err := dumpMatchesToTmpFile(matches)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptOppsToFile:
		opps := &opportunity.Opportunities{}
		for _, m := range matches {
			opps.Items = append(opps.Items, m.Opportunity)
		}
		filename, err := opps.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump opportunities to file: %w", err)
		}
		s.logger.Info("dumping opportunities to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// review walks ranked matches one by one and records the chosen action.
func (s *reviewSession) review(ctx context.Context, matches []*matching.MatchResult) error {
	for _, match := range matches {
		printMatch(match)

		matchPrompt := promptui.Select{
			Label: "Decision",
			Items: []string{PromptApply, PromptSave, PromptPass, PromptSkip, PromptBack},
		}

		_, decision, err := matchPrompt.Run()
		if err != nil {
			return err
		}

		switch decision {
		case PromptApply:
			s.apply(ctx, match)
		case PromptSave:
			s.record(match.Opportunity, opportunity.ActionSave)
		case PromptPass:
			s.record(match.Opportunity, opportunity.ActionPass)
		case PromptSkip:
			continue
		case PromptBack:
			return nil
		}
	}
	return nil
}

// apply discovers the application path for the opportunity and records the
// interaction. Discovery results are cached by starting URL.
func (s *reviewSession) apply(ctx context.Context, match *matching.MatchResult) {
	opp := match.Opportunity

	var result *appfinder.Result
	startURL := opp.PageURL()
	if cached, ok := s.cache.Get(startURL); ok && startURL != "" {
		s.logger.Debug("using cached application path", zap.String("url", startURL))
		result = cached
	} else {
		result = s.finder.FindForOpportunity(ctx, opp)
		if startURL != "" {
			s.cache.Put(startURL, result)
		}
	}

	if result.ApplicationURL != "" {
		s.logger.Info("application entry point found",
			zap.String("opportunity_id", opp.ID),
			zap.String("application_url", result.ApplicationURL),
			zap.Float64("confidence", result.Confidence),
		)
	} else {
		s.logger.Info("no direct application link; follow the instructions",
			zap.String("opportunity_id", opp.ID),
			zap.Strings("instructions", result.Instructions),
			zap.Float64("confidence", result.Confidence),
		)
	}

	s.record(opp, opportunity.ActionApply)
}

func (s *reviewSession) record(opp *opportunity.Opportunity, action string) {
	s.interactions.Record(opp, action)
	if err := s.interactions.ToFile(s.interactionsFile); err != nil {
		s.logger.Warn("saving interactions file failed",
			zap.String("path", s.interactionsFile),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("recorded interaction",
		zap.String("opportunity_id", opp.ID),
		zap.String("action", action),
	)
}

func printMatch(match *matching.MatchResult) {
	opp := match.Opportunity
	fmt.Printf("\n%s  [%s]\n", opp.Title, opp.Collection)
	if summary := utils.TruncateForLog(opp.Description, 200); summary != "" {
		fmt.Printf("  %s\n", summary)
	}
	fmt.Printf("  relevance: %.1f  win rate: %.0f%%  urgency: %s\n", match.RelevanceScore, match.WinRate, match.Urgency)
	for _, factor := range match.Factors {
		fmt.Printf("  - %s: %.0f/%.0f (%s)\n", factor.Name, factor.Score, factor.Max, factor.Details)
	}
	if url := opp.PageURL(); url != "" {
		fmt.Printf("  %s\n", url)
	}
}

func printMatches(matches []*matching.MatchResult) {
	for _, match := range matches {
		printMatch(match)
	}
}

func dumpMatchesToTmpFile(matches []*matching.MatchResult) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(matches); err != nil {
		return "", err
	}
	return file.Name(), nil
}
