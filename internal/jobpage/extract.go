// Package jobpage pulls the job posting text out of rendered page HTML so the
// matcher can score it without a second network fetch.
package jobpage

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Posting is the text content of one job page.
type Posting struct {
	Title       string
	Company     string
	Location    string
	Description string
}

// descriptionSelectors are tried in order; the site ships several layouts.
var descriptionSelectors = []string{
	"#job-details",
	".jobs-description__content",
	".jobs-box__html-content",
	"[class*='description__text']",
}

var companySelectors = []string{
	".job-details-jobs-unified-top-card__company-name",
	"[class*='company-name']",
}

var locationSelectors = []string{
	".job-details-jobs-unified-top-card__primary-description-container",
	"[class*='tertiary-description']",
}

// Parse extracts the posting from the rendered HTML. The description falls
// back to the whole body text when no known container matches, so the matcher
// always has something to score.
func Parse(html string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse job page html: %w", err)
	}

	posting := &Posting{
		Title:       cleanText(doc.Find("h1").First().Text()),
		Company:     firstMatch(doc, companySelectors),
		Location:    firstMatch(doc, locationSelectors),
		Description: firstMatch(doc, descriptionSelectors),
	}

	if posting.Description == "" {
		posting.Description = cleanText(doc.Find("body").Text())
	}

	return posting, nil
}

func firstMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := cleanText(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// cleanText collapses the whitespace runs left behind by HTML flattening.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
