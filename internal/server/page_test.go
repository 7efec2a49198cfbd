package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opinity/proposal-generator/internal/proposal"
	"github.com/opinity/proposal-generator/internal/types"
)

func (h *harness) page(t *testing.T) *goquery.Document {
	t.Helper()
	w := h.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestIndex_IdleForm(t *testing.T) {
	h := newHarness(t, Config{})
	doc := h.page(t)

	assert.Equal(t, "idle", doc.Find("body").AttrOr("data-state", ""))
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, 1, doc.Find("textarea#notes").Length())
	assert.Equal(t, "€22,400", doc.Find("#budget-total").Text())
	assert.Equal(t, "140", doc.Find("#budget-total").AttrOr("data-rate", ""))

	eng := doc.Find("#engineers")
	assert.Equal(t, "1", eng.AttrOr("min", ""))
	assert.Equal(t, "10", eng.AttrOr("max", ""))
	hours := doc.Find("#hours")
	assert.Equal(t, "10", hours.AttrOr("min", ""))
	assert.Equal(t, "500", hours.AttrOr("max", ""))
	assert.Equal(t, "10", hours.AttrOr("step", ""))

	assert.Equal(t, 2, doc.Find("[data-demo]").Length())
	assert.Contains(t, doc.Find("#generate").Text(), "Generate Proposal")
	_, disabled := doc.Find("#generate").Attr("disabled")
	assert.True(t, disabled, "generate must be disabled while the notes are blank")
	assert.Zero(t, doc.Find("#proposal").Length())
	assert.Zero(t, doc.Find("#error-notice").Length())
}

func TestIndex_GenerateEnabledWithNotes(t *testing.T) {
	tests := []struct {
		name     string
		notes    string
		disabled bool
	}{
		{"whitespace only", "  \n\t ", true},
		{"typed notes", "Deployments take 3 days.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Config{})
			w := h.do(http.MethodPut, "/api/session/form", GenerateRequest{Notes: tt.notes, Engineers: 2, Hours: 80})
			require.Equal(t, http.StatusOK, w.Code)

			_, disabled := h.page(t).Find("#generate").Attr("disabled")
			assert.Equal(t, tt.disabled, disabled)
		})
	}
}

func TestIndex_Dutch(t *testing.T) {
	h := newHarness(t, Config{})
	require.NoError(t, h.session.SetLanguage(types.LanguageDutch))
	doc := h.page(t)

	assert.Equal(t, "nl", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "€22.400", doc.Find("#budget-total").Text())
	assert.Contains(t, doc.Find("#generate").Text(), "Genereer Voorstel")
}

func TestIndex_CompleteProposal(t *testing.T) {
	h := newHarness(t, Config{})
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/proposals", validRequest).Code)
	doc := h.page(t)

	assert.Equal(t, "complete", doc.Find("body").AttrOr("data-state", ""))
	assert.Zero(t, doc.Find("form#intake").Length())

	var titles []string
	doc.Find("#proposal .section h2").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{
		"The Challenge", "Pragmatic Approach", "The Solution", "Opinity Trinity", "Investment",
		"Value Stream Mapping Session", "DORA Metrics", "Azure DevOps Backlog",
	}, titles)

	stories := doc.Find("#backlog .story")
	require.Equal(t, 2, stories.Length())
	assert.Equal(t, "US-002", stories.Eq(1).AttrOr("data-story-id", ""))
	assert.Equal(t, 2, stories.Eq(1).Find("li").Length())

	var links []string
	doc.Find("#exports a").Each(func(_ int, s *goquery.Selection) {
		links = append(links, s.AttrOr("href", ""))
	})
	assert.Equal(t, []string{"/api/exports/pdf", "/api/exports/json", "/api/exports/csv", "/api/exports/bundle"}, links)
}

func TestIndex_BasicProposalHidesBacklog(t *testing.T) {
	h := newHarness(t, Config{})
	h.gen.proposal = basicProposal()
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/proposals", validRequest).Code)
	doc := h.page(t)

	assert.Equal(t, 5, doc.Find("#proposal .section").Length())
	assert.Zero(t, doc.Find("#backlog").Length())
	assert.Equal(t, 2, doc.Find("#exports a").Length())
}

func TestIndex_ErrorNotice(t *testing.T) {
	h := newHarness(t, Config{})
	h.gen.err = &proposal.ServiceError{Message: "down"}
	h.do(http.MethodPost, "/api/proposals", validRequest)
	doc := h.page(t)

	assert.Equal(t, "error", doc.Find("body").AttrOr("data-state", ""))
	notice := doc.Find("#error-notice")
	require.Equal(t, 1, notice.Length())
	assert.Contains(t, notice.Text(), "Could not reach the AI service. Please try again.")
	assert.Equal(t, validRequest.Notes, doc.Find("textarea#notes").Text())
	_, disabled := doc.Find("#generate").Attr("disabled")
	assert.False(t, disabled)
}

func TestIndex_EscapesNotes(t *testing.T) {
	h := newHarness(t, Config{})
	h.gen.err = &proposal.ServiceError{Message: "down"}
	h.do(http.MethodPost, "/api/proposals", GenerateRequest{Notes: "<script>alert(1)</script>", Engineers: 2, Hours: 80})

	w := h.do(http.MethodGet, "/", nil)
	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, w.Body.String(), "&lt;script&gt;alert(1)&lt;/script&gt;")
}
