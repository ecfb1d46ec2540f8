package appfinder

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// applyKeywords is the fixed apply-intent vocabulary checked against anchor
// text, title attributes and data attributes.
var applyKeywords = []string{
	"apply",
	"application",
	"submit",
	"start",
	"begin",
	"proposal",
}

// relevantPattern admits links into the crawl frontier for deeper exploration.
var relevantPattern = regexp.MustCompile(`(?i)apply|grant|fund|portal|login|submission`)

var errUnsupportedScheme = errors.New("unsupported url scheme")

type statusError struct {
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.status)
}

type anchor struct {
	href      string
	text      string
	title     string
	dataAttrs string
}

// page is the parsed view of one fetched document: just its anchors.
type page struct {
	anchors []anchor
}

// parsePage extracts anchors from an HTML document. Malformed HTML is
// tolerated; an unreadable body simply yields no candidates.
func parsePage(r io.Reader) *page {
	doc, err := html.Parse(r)
	if err != nil {
		return &page{}
	}

	p := &page{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			a := anchor{text: strings.ToLower(nodeText(n))}
			var dataParts []string
			for _, attr := range n.Attr {
				switch {
				case attr.Key == "href":
					a.href = strings.TrimSpace(attr.Val)
				case attr.Key == "title":
					a.title = strings.ToLower(attr.Val)
				case strings.HasPrefix(attr.Key, "data-"):
					dataParts = append(dataParts, strings.ToLower(attr.Val))
				}
			}
			a.dataAttrs = strings.Join(dataParts, " ")
			if a.href != "" {
				p.anchors = append(p.anchors, a)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return p
}

// nodeText collects the visible text of a node and its descendants, so a
// button wrapped inside an anchor contributes to the anchor's text.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// findApplyLink returns the first anchor with apply intent, resolved against
// the base URL.
func findApplyLink(baseURL string, p *page) string {
	for _, a := range p.anchors {
		if matchesApplyKeyword(a.text) || matchesApplyKeyword(a.title) || matchesApplyKeyword(a.dataAttrs) {
			if resolved := resolveLink(baseURL, a.href); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

// gatherRelevantLinks returns frontier candidates: links whose text or URL
// match the broader relevance pattern.
func gatherRelevantLinks(baseURL string, p *page) []string {
	seen := make(map[string]bool)
	var links []string
	for _, a := range p.anchors {
		if !matchesApplyKeyword(a.text) && !relevantPattern.MatchString(a.text) && !relevantPattern.MatchString(a.href) {
			continue
		}
		resolved := resolveLink(baseURL, a.href)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		links = append(links, resolved)
	}
	return links
}

func matchesApplyKeyword(text string) bool {
	if text == "" {
		return false
	}
	for _, keyword := range applyKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// resolveLink makes the href absolute and drops non-http targets and
// fragments.
func resolveLink(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
