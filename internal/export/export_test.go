package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opinity/proposal-generator/internal/types"
)

var generatedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func extendedProposal() *types.Proposal {
	return &types.Proposal{
		Variant:     types.VariantExtended,
		Language:    types.LanguageEnglish,
		GeneratedAt: generatedAt,
		Data: types.ProposalData{
			Challenge:    "Releases take three days.",
			Approach:     "Two DevOps Engineers.",
			Solution:     "CI/CD, DORA metrics and a VSM sessie.",
			TrinityFocus: "Happy Engineers.",
			Investment:   "€22,400 for 160 hours.",
			VSMSession:   "Half a day, €1600.",
			DoraMetrics:  "Lead time for changes.",
			AzureDevOpsExport: &types.AzureDevOpsExport{
				ProjectMission: "Ship daily <safely> & calmly.",
				UserStories: []types.UserStory{
					{ID: "US-001", Title: "Login", Description: `Say "hi"`, AcceptanceCriteria: []string{"a", "b"}, Priority: types.PriorityHigh},
					{ID: "US-002", Title: "Deploy, fast", Description: "multi\nline", AcceptanceCriteria: []string{"c"}, Priority: types.PriorityLow},
				},
			},
		},
	}
}

func basicProposal() *types.Proposal {
	p := extendedProposal()
	p.Variant = types.VariantBasic
	p.Data.VSMSession = ""
	p.Data.DoraMetrics = ""
	p.Data.AzureDevOpsExport = nil
	return p
}

func TestRenderCSV_Row(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, extendedProposal()))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, CSVHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `US-001,"Login","Say ""hi""",High,"a; b"`+"\n"))
	assert.False(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestCSVRow_QuotesIDAndPriorityOnlyWhenNeeded(t *testing.T) {
	row := CSVRow(types.UserStory{ID: "US,1", Title: "t", Description: "d", AcceptanceCriteria: []string{"x"}, Priority: "Hi\"gh"})
	assert.Equal(t, `"US,1","t","d","Hi""gh","x"`, row)
}

func TestRenderCSV_RoundTrip(t *testing.T) {
	p := extendedProposal()
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, p))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, story := range p.Data.AzureDevOpsExport.UserStories {
		rec := records[i+1]
		assert.Equal(t, story.ID, rec[0])
		assert.Equal(t, story.Title, rec[1])
		assert.Equal(t, story.Description, rec[2])
		assert.Equal(t, string(story.Priority), rec[3])
		assert.Equal(t, strings.Join(story.AcceptanceCriteria, "; "), rec[4])
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, extendedProposal(), generatedAt))

	var doc struct {
		ProjectMission string            `json:"projectMission"`
		UserStories    []types.UserStory `json:"userStories"`
		Metadata       map[string]string `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "Ship daily <safely> & calmly.", doc.ProjectMission)
	assert.Len(t, doc.UserStories, 2)
	assert.Equal(t, "2026-03-01T09:30:00Z", doc.Metadata["generated"])
	assert.Equal(t, "en", doc.Metadata["language"])
	assert.Equal(t, "extended", doc.Metadata["proposalType"])

	assert.Contains(t, buf.String(), "\n  \"projectMission\"")
	assert.Contains(t, buf.String(), "<safely>")
}

func TestBacklogExports_RequireExtended(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderJSON(&buf, basicProposal(), generatedAt), ErrExtendedOnly)
	assert.ErrorIs(t, RenderCSV(&buf, basicProposal()), ErrExtendedOnly)
	assert.Zero(t, buf.Len())
}

func TestNilProposalPanics(t *testing.T) {
	assert.Panics(t, func() { _ = RenderCSV(io.Discard, nil) })
	assert.Panics(t, func() { _ = RenderPDF(io.Discard, nil) })
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, extendedProposal()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func pdfContent(t *testing.T, p *types.Proposal) (string, int) {
	t.Helper()
	doc := newPDF(p, false)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.String(), doc.PageCount()
}

func TestRenderPDF_Sections(t *testing.T) {
	content, _ := pdfContent(t, extendedProposal())
	for _, heading := range []string{"1. THE CHALLENGE", "5. INVESTMENT", "6. VALUE STREAM MAPPING SESSION", "7. DORA METRICS", "8. AZURE DEVOPS BACKLOG"} {
		assert.Contains(t, content, heading)
	}
	assert.Contains(t, content, "TECHNICAL PROPOSAL")
	assert.Contains(t, content, "March 1, 2026")

	content, _ = pdfContent(t, basicProposal())
	assert.Contains(t, content, "5. INVESTMENT")
	assert.NotContains(t, content, "6. VALUE STREAM")
	assert.NotContains(t, content, "8. AZURE DEVOPS")
}

func TestRenderPDF_Dutch(t *testing.T) {
	p := extendedProposal()
	p.Language = types.LanguageDutch
	content, _ := pdfContent(t, p)
	assert.Contains(t, content, "TECHNISCH VOORSTEL")
	assert.Contains(t, content, "1. DE UITDAGING")
	assert.Contains(t, content, "01-03-2026")
}

func TestRenderPDF_LongTextFlowsWithFooterOnEveryPage(t *testing.T) {
	p := extendedProposal()
	p.Data.Solution = strings.Repeat("Automate the pipeline and measure the flow of work. ", 600)

	content, pages := pdfContent(t, p)
	require.Greater(t, pages, 1)
	assert.Equal(t, pages, strings.Count(content, "Rietbaan 8"))
	assert.Contains(t, content, "7. DORA METRICS")
}

func TestFoldText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deploy → prod 🚀 在生产", "Deploy -> prod ? ???"},
		{"Łódź ő ≥ 3", "Lódz o >= 3"},
		{"€22.400 – “quoted” café", "€22.400 – “quoted” café"},
		{"ok ✔\u200d", "ok v"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldText(tt.in), tt.in)
	}
}

func TestRenderPDF_FoldsUnsupportedRunes(t *testing.T) {
	p := extendedProposal()
	p.Data.Challenge = "Deploy → prod 🚀"

	content, _ := pdfContent(t, p)
	assert.Contains(t, content, "Deploy -> prod ?")
	assert.NotContains(t, content, "Deploy . prod")
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"pdf", "json", "csv", "bundle"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.NotEmpty(t, f.FileName())
		assert.NotEmpty(t, f.ContentType())
	}
	_, err := ParseFormat("docx")
	assert.Error(t, err)

	assert.True(t, FormatCSV.RequiresExtended())
	assert.False(t, FormatPDF.RequiresExtended())
	assert.Equal(t, "azure-devops-user-stories.csv", FormatCSV.FileName())
}

func TestBundle(t *testing.T) {
	artifacts, err := Bundle(context.Background(), extendedProposal(), generatedAt)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, PDFFileName, artifacts[0].Name)
	assert.Equal(t, JSONFileName, artifacts[1].Name)
	assert.Equal(t, CSVFileName, artifacts[2].Name)

	basic, err := Bundle(context.Background(), basicProposal(), generatedAt)
	require.NoError(t, err)
	require.Len(t, basic, 1)
	assert.Equal(t, PDFFileName, basic[0].Name)
}

func TestRender_BundleZip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), &buf, FormatBundle, extendedProposal(), generatedAt))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{PDFFileName, JSONFileName, CSVFileName}, names)
}
