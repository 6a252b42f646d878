package services

import (
	"regexp"
	"strings"

	"github.com/CCMKTGGP/brand-visibility-tracker/models"
)

var urlRe = regexp.MustCompile(`https?://[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}[^\s,)\]}"']*|www\.[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}[^\s,)\]}"']*`)

// recoverCitations scans the raw answer for URLs the judge may have skipped
// and merges them into the judged citation list. Advisory only; the pipeline
// does not deduplicate across runs.
func recoverCitations(judged []models.DomainCitation, responseText string, brand models.BrandProfile) []models.DomainCitation {
	seen := make(map[string]bool, len(judged))
	for _, c := range judged {
		seen[strings.ToLower(c.Domain)] = true
	}

	citations := judged
	for _, match := range urlRe.FindAllString(responseText, -1) {
		domain := domainOf(match)
		if domain == "" || seen[domain] {
			continue
		}
		seen[domain] = true

		sourceType := "secondary"
		if isBrandDomain(domain, brand.Name) {
			sourceType = "primary"
		}
		citations = append(citations, models.DomainCitation{
			Domain:     domain,
			SourceType: sourceType,
			Relevance:  "mentioned",
			Reasoning:  "URL present in the model's answer",
		})
	}
	return citations
}

func domainOf(rawURL string) string {
	domain := strings.ToLower(strings.TrimSpace(rawURL))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if idx := strings.IndexAny(domain, "/?#"); idx >= 0 {
		domain = domain[:idx]
	}
	return strings.TrimRight(domain, ".")
}

func isBrandDomain(domain, brandName string) bool {
	compact := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(brandName)), " ", "")
	if compact == "" {
		return false
	}
	return strings.Contains(domain, compact)
}

// normalizeCompetitors fills in normalized names the judge omitted so the
// display layer can group mentions by base name.
func normalizeCompetitors(mentions []models.CompetitorMention) []models.CompetitorMention {
	out := make([]models.CompetitorMention, 0, len(mentions))
	for _, m := range mentions {
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			continue
		}
		if m.NormalizedName == "" {
			m.NormalizedName = strings.ToLower(m.Name)
		}
		out = append(out, m)
	}
	return out
}
