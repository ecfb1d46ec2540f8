package appfinder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rfpqueen/grant-scout/internal/matching"
	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

// directURLFields are the extra-data keys that may already carry the
// application entry point.
var directURLFields = []string{
	"applicationUrl",
	"applyUrl",
	"formUrl",
	"submissionUrl",
}

var (
	urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

	applyURLKeywords = []string{"apply", "application", "submit", "form", "proposal"}
	// Job postings share the apply vocabulary but are never grant entry points.
	jobURLKeywords = []string{"job", "career", "employment"}
)

// DirectApplicationURL returns an application URL already present in the
// opportunity record, either in a named field or embedded in the description
// text. Empty when nothing qualifies.
func DirectApplicationURL(opp *opportunity.Opportunity) string {
	for _, field := range directURLFields {
		if u := opp.ExtraString(field); u != "" && isApplicationURL(u) {
			return u
		}
	}

	for _, text := range []string{opp.Description, opp.Summary} {
		for _, u := range urlPattern.FindAllString(text, -1) {
			u = strings.TrimRight(u, ".,;)")
			if isApplicationURL(u) {
				return u
			}
		}
	}

	return ""
}

func isApplicationURL(u string) bool {
	lower := strings.ToLower(u)

	for _, word := range jobURLKeywords {
		if strings.Contains(lower, word) {
			return false
		}
	}

	for _, word := range applyURLKeywords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// manualInstructions builds a fallback checklist from whatever contact data
// the record carries.
func manualInstructions(opp *opportunity.Opportunity) []string {
	var instructions []string

	if page := opp.PageURL(); page != "" {
		instructions = append(instructions,
			fmt.Sprintf("Visit the opportunity page: %s", page),
			"Look for an 'Apply', 'Submit', or 'Application' button or link on the page.",
		)
	}

	agency := opp.Agency
	if agency == "" {
		agency = opp.Department
	}
	if agency != "" {
		instructions = append(instructions, fmt.Sprintf("Contact %s directly for application instructions.", agency))
	}

	if opp.ContactEmail != "" {
		instructions = append(instructions, fmt.Sprintf("Email: %s", opp.ContactEmail))
	}
	if opp.ContactPhone != "" {
		instructions = append(instructions, fmt.Sprintf("Phone: %s", opp.ContactPhone))
	}

	if deadline := opp.DeadlineValue(); deadline != "" {
		if parsed, ok := matching.ParseDeadline(deadline); ok {
			instructions = append(instructions, fmt.Sprintf("Application deadline: %s", parsed.Format("January 2, 2006")))
		} else {
			instructions = append(instructions, fmt.Sprintf("Application deadline: %s", deadline))
		}
	}

	if len(instructions) == 0 {
		instructions = append(instructions, "Check the opportunity details for application information.")
	}

	return instructions
}
