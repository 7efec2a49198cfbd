// Package linkedin derives a tone-of-voice hint from the LinkedIn profile of the proposal audience.
package linkedin

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/opinity/proposal-generator/internal/fetch"
	"github.com/opinity/proposal-generator/internal/logger"
)

// Audience is the broad role of the reader.
type Audience string

// Audience values
const (
	AudienceExecutive Audience = "executive"
	AudienceTechnical Audience = "technical"
	AudienceUnknown   Audience = "unknown"
)

var executiveTokens = map[string]bool{
	"ceo": true, "cfo": true, "coo": true, "cmo": true, "cpo": true,
	"founder": true, "cofounder": true, "owner": true, "director": true,
	"president": true, "partner": true, "finance": true, "md": true,
}

var technicalTokens = map[string]bool{
	"cto": true, "cio": true, "ciso": true, "lead": true, "architect": true,
	"engineer": true, "engineering": true, "developer": true, "devops": true,
	"sre": true, "tech": true, "platform": true,
}

// Slug returns the profile slug of a LinkedIn URL ("jane-doe-cto" for
// https://www.linkedin.com/in/jane-doe-cto/). Non-profile URLs yield the last path segment.
func Slug(profileURL string) string {
	u, err := url.Parse(strings.TrimSpace(profileURL))
	if err != nil {
		return ""
	}
	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return ""
	}
	for i, s := range segments {
		if s == "in" && i+1 < len(segments) {
			return strings.ToLower(segments[i+1])
		}
	}
	return strings.ToLower(segments[len(segments)-1])
}

// Classify guesses the audience from words in text (a slug or a headline).
// Executive roles win when both kinds appear.
func Classify(text string) Audience {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	technical := false
	for _, tok := range tokens {
		if executiveTokens[tok] {
			return AudienceExecutive
		}
		if technicalTokens[tok] {
			technical = true
		}
	}
	if technical {
		return AudienceTechnical
	}
	return AudienceUnknown
}

// ClassifySlug classifies the slug of a profile URL.
func ClassifySlug(profileURL string) Audience {
	return Classify(Slug(profileURL))
}

// Directive renders the hint appended to the LinkedIn prompt block. It is empty when
// neither the audience nor a headline is known.
func Directive(audience Audience, headline string) string {
	var parts []string
	switch audience {
	case AudienceExecutive:
		parts = append(parts, "Detected audience: C-level / business decision maker. Lead with business value, cost of delay and risk.")
	case AudienceTechnical:
		parts = append(parts, "Detected audience: technical leader. Go deeper on architecture, pipelines and measurable flow.")
	}
	if headline != "" {
		parts = append(parts, fmt.Sprintf("Public profile headline: %q.", headline))
	}
	return strings.Join(parts, "\n")
}

// Enricher builds the audience hint for a generation.
type Enricher struct {
	fetcher fetch.Renderer
	log     *logger.Logger
}

// NewEnricher creates an Enricher. A nil fetcher classifies the slug only.
func NewEnricher(fetcher fetch.Renderer, log *logger.Logger) *Enricher {
	if log == nil {
		log = logger.Nop()
	}
	return &Enricher{fetcher: fetcher, log: log}
}

// AudienceHint returns the directive for profileURL. Fetch failures are logged and
// the slug classification is used alone, so enrichment never fails a generation.
func (e *Enricher) AudienceHint(ctx context.Context, profileURL string) string {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return ""
	}

	audience := ClassifySlug(profileURL)
	if e.fetcher == nil {
		return Directive(audience, "")
	}

	summary, err := e.fetcher.Summarize(ctx, profileURL)
	if err != nil {
		e.log.Warn("profile fetch failed, using slug only", "url", profileURL, "error", err)
		return Directive(audience, "")
	}

	if audience == AudienceUnknown {
		audience = Classify(summary.Title + " " + summary.Description)
	}
	e.log.Debug("profile enriched", "url", profileURL, "audience", string(audience))
	return Directive(audience, summary.Title)
}
