package appfinder

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
	"github.com/rfpqueen/grant-scout/internal/utils"
)

const (
	// Some grant portals refuse requests without a browser-like agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	defaultMaxDepth = 2
	defaultTimeout  = 10 * time.Second

	confidenceDirect    = 1.0
	confidenceTopPage   = 0.85
	confidenceDeepPage  = 0.75
	confidenceExhausted = 0.2
)

// Result describes the discovered path to an application entry point.
type Result struct {
	ApplicationURL string   `json:"application_url,omitempty"`
	Instructions   []string `json:"instructions"`
	VisitedURLs    []string `json:"visited_urls"`
	Confidence     float64  `json:"confidence"`
	Notes          string   `json:"notes,omitempty"`
}

// Finder locates the most direct apply link for an opportunity. Each Discover
// call owns its frontier and visited set, so concurrent calls for different
// URLs are independent.
type Finder struct {
	HTTPClient *http.Client
	UserAgent  string
	MaxDepth   int
	FetchDelay time.Duration

	logger *zap.Logger
}

func New(logger *zap.Logger) *Finder {
	return &Finder{
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: defaultUserAgent,
		MaxDepth:  defaultMaxDepth,
		logger:    logger,
	}
}

type frontierEntry struct {
	url   string
	depth int
}

// Discover runs a breadth-first crawl from startURL looking for an
// apply-intent link. The frontier is an explicit worklist bounded by
// MaxDepth; no URL is fetched twice. Network faults skip the page instead of
// aborting the crawl.
func (f *Finder) Discover(ctx context.Context, startURL string) *Result {
	visited := make(map[string]bool)
	var visitedOrder []string

	frontier := []frontierEntry{{url: startURL, depth: 0}}

	for len(frontier) > 0 {
		entry := frontier[0]
		frontier = frontier[1:]

		if visited[entry.url] {
			continue
		}
		visited[entry.url] = true
		visitedOrder = append(visitedOrder, entry.url)

		if len(visitedOrder) > 1 && f.FetchDelay > 0 {
			if err := utils.WaitFor(ctx, f.FetchDelay); err != nil {
				break
			}
		}

		page, err := f.fetch(ctx, entry.url)
		if err != nil {
			f.logger.Warn("fetching page failed",
				zap.String("url", entry.url),
				zap.Error(err),
			)
			continue
		}

		if candidate := findApplyLink(entry.url, page); candidate != "" {
			confidence := confidenceDeepPage
			if entry.depth == 0 {
				confidence = confidenceTopPage
			}
			return &Result{
				ApplicationURL: candidate,
				Instructions: []string{
					"Open the opportunity page",
					"Use the apply link highlighted on the site",
				},
				VisitedURLs: visitedOrder,
				Confidence:  confidence,
			}
		}

		if entry.depth >= f.MaxDepth {
			continue
		}

		for _, link := range gatherRelevantLinks(entry.url, page) {
			if !visited[link] {
				frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
			}
		}
	}

	return &Result{
		Instructions: []string{
			"Visit the opportunity page",
			"Look for buttons or navigation items labelled Apply / Submit",
			"Follow the organization's grants or funding portal if required",
		},
		VisitedURLs: visitedOrder,
		Confidence:  confidenceExhausted,
		Notes:       "Automatic discovery could not find a direct apply link; manual review suggested.",
	}
}

// FindForOpportunity resolves the application path for a single opportunity:
// direct URL short-circuit first, then the crawl, then generated manual
// instructions. It never returns an error; total failure yields a well-formed
// zero-confidence result.
func (f *Finder) FindForOpportunity(ctx context.Context, opp *opportunity.Opportunity) *Result {
	if direct := DirectApplicationURL(opp); direct != "" {
		return &Result{
			ApplicationURL: direct,
			Instructions:   manualInstructions(opp),
			VisitedURLs:    []string{},
			Confidence:     confidenceDirect,
			Notes:          "Application URL taken directly from the opportunity record.",
		}
	}

	if page := opp.PageURL(); page != "" {
		result := f.Discover(ctx, page)
		if result.ApplicationURL == "" {
			result.Instructions = manualInstructions(opp)
		}
		return result
	}

	return &Result{
		Instructions: manualInstructions(opp),
		VisitedURLs:  []string{},
		Confidence:   0,
		Notes:        "Opportunity record has no page URL to crawl.",
	}
}

func (f *Finder) fetch(ctx context.Context, pageURL string) (*page, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errUnsupportedScheme
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	f.logger.Debug("fetching page", zap.String("url", pageURL))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.Status}
	}

	return parsePage(resp.Body), nil
}
