package server

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/opinity/proposal-generator/internal/budget"
	"github.com/opinity/proposal-generator/internal/export"
	"github.com/opinity/proposal-generator/internal/locale"
	"github.com/opinity/proposal-generator/internal/session"
	"github.com/opinity/proposal-generator/internal/types"
)

//go:embed templates/index.html
var templateFiles embed.FS

// Form bounds of the budget sliders
const (
	MinEngineers = 1
	MaxEngineers = 10
	MinHours     = 10
	MaxHours     = 500
	HoursStep    = 10
)

// section is one rendered proposal block
type section struct {
	Title string
	Body  string
}

type exportLink struct {
	Label string
	Href  string
}

type pageData struct {
	Lang     types.Language
	Text     *locale.Strings
	Snap     session.Snapshot
	Sections []section
	Backlog  *types.AzureDevOpsExport
	Exports  []exportLink

	MinEngineers, MaxEngineers int
	MinHours, MaxHours         int
	HoursStep, Rate            int
}

func parsePage() (*template.Template, error) {
	return template.New("index.html").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"state": func(s session.State) string { return strings.ToLower(string(s)) },
		"blank": func(s string) bool { return strings.TrimSpace(s) == "" },
	}).ParseFS(templateFiles, "templates/index.html")
}

// handleIndex renders the form with the current session
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	snap := s.workflow.Session().Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, newPageData(snap)); err != nil {
		s.log.Error("failed to render page", "error", err)
	}
}

func newPageData(snap session.Snapshot) pageData {
	text := locale.For(snap.Language)
	data := pageData{
		Lang:         snap.Language,
		Text:         text,
		Snap:         snap,
		MinEngineers: MinEngineers,
		MaxEngineers: MaxEngineers,
		MinHours:     MinHours,
		MaxHours:     MaxHours,
		HoursStep:    HoursStep,
		Rate:         budget.HourlyRate,
	}

	p := snap.Proposal
	if p == nil {
		return data
	}

	h := text.Headers
	d := p.Data
	data.Sections = []section{
		{Title: h.Challenge, Body: d.Challenge},
		{Title: h.Approach, Body: d.Approach},
		{Title: h.Solution, Body: d.Solution},
		{Title: h.Trinity, Body: d.TrinityFocus},
		{Title: h.Investment, Body: d.Investment},
	}
	data.Exports = []exportLink{{Label: text.ExportPDF, Href: exportHref(export.FormatPDF)}}

	if p.IsExtended() {
		data.Sections = append(data.Sections,
			section{Title: h.VSMSession, Body: d.VSMSession},
			section{Title: h.DoraMetrics, Body: d.DoraMetrics},
		)
		data.Backlog = d.AzureDevOpsExport
		data.Exports = append(data.Exports,
			exportLink{Label: text.ExportJSON, Href: exportHref(export.FormatJSON)},
			exportLink{Label: text.ExportCSV, Href: exportHref(export.FormatCSV)},
		)
	}
	data.Exports = append(data.Exports, exportLink{Label: text.ExportBundle, Href: exportHref(export.FormatBundle)})
	return data
}

func exportHref(f export.Format) string {
	return "/api/exports/" + string(f)
}
