package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/opinity/proposal-generator/internal/locale"
	"github.com/opinity/proposal-generator/internal/types"
)

// Page geometry in millimetres
const (
	pageMargin      = 20.0
	headerHeight    = 40.0
	footerOffset    = 25.0
	pageBreakMargin = 32.0
)

type rgb struct{ r, g, b int }

var (
	colorBlack = rgb{0, 0, 0}
	colorBlue  = rgb{0, 164, 232}
	colorWhite = rgb{255, 255, 255}
	colorBody  = rgb{60, 60, 60}
	colorMuted = rgb{100, 100, 100}
	colorRule  = rgb{200, 200, 200}
)

const defaultFamily = "Helvetica"

type section struct {
	title string
	body  string
}

// RenderPDF writes the proposal as an A4 document. Basic proposals have five
// numbered sections, extended ones eight. Long text wraps and flows onto new pages.
func RenderPDF(w io.Writer, p *types.Proposal) error {
	doc := newPDF(p, true)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// newPDF lays out the whole document. Compression is disabled in tests to inspect the content.
func newPDF(p *types.Proposal, compress bool) *fpdf.Fpdf {
	if p == nil {
		panic("export: nil proposal")
	}
	text := locale.For(p.Language)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.SetTitle("Opinity - "+text.PDFTitle, true)
	pdf.SetAuthor("Opinity B.V.", true)
	if !p.GeneratedAt.IsZero() {
		pdf.SetCreationDate(p.GeneratedAt)
	}

	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	tr := func(s string) string { return cp1252(foldText(s)) }
	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerOffset)
		y := pdf.GetY()
		setDraw(pdf, colorRule)
		pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
		pdf.SetY(y + 4)
		pdf.SetFont(defaultFamily, "", 8)
		setText(pdf, colorMuted)
		pdf.CellFormat(0, 4, tr(locale.CompanyAddress), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 4, tr(text.Tagline), "", 1, "L", false, 0, "")
	})

	pdf.AddPage()

	// Header band
	setFill(pdf, colorBlack)
	pdf.Rect(0, 0, pageWidth, headerHeight, "F")
	pdf.SetFont(defaultFamily, "B", 22)
	setText(pdf, colorBlue)
	pdf.Text(pageMargin, 25, "Opinity")
	pdf.SetFont(defaultFamily, "", 10)
	setText(pdf, colorWhite)
	pdf.SetXY(pageMargin, 21)
	pdf.CellFormat(0, 5, tr(text.PDFTitle), "", 0, "R", false, 0, "")

	pdf.SetXY(pageMargin, headerHeight+8)
	pdf.SetFont(defaultFamily, "", 9)
	setText(pdf, colorMuted)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("%s: %s", text.PDFDate, formatDate(p))), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for i, s := range sections(p, text) {
		writeHeading(pdf, tr, fmt.Sprintf("%d. %s", i+1, strings.ToUpper(s.title)))
		writeBody(pdf, tr, s.body)
		pdf.Ln(5)
	}

	if p.IsExtended() {
		writeBacklog(pdf, tr, p.Data.AzureDevOpsExport, text)
	}
	return pdf
}

func sections(p *types.Proposal, text *locale.Strings) []section {
	d := p.Data
	out := []section{
		{text.Headers.Challenge, d.Challenge},
		{text.Headers.Approach, d.Approach},
		{text.Headers.Solution, d.Solution},
		{text.Headers.Trinity, d.TrinityFocus},
		{text.Headers.Investment, d.Investment},
	}
	if p.IsExtended() {
		out = append(out,
			section{text.Headers.VSMSession, d.VSMSession},
			section{text.Headers.DoraMetrics, d.DoraMetrics},
		)
	}
	return out
}

// writeBacklog renders section 8: the mission and every story with its criteria.
func writeBacklog(pdf *fpdf.Fpdf, tr func(string) string, export *types.AzureDevOpsExport, text *locale.Strings) {
	writeHeading(pdf, tr, "8. "+strings.ToUpper(text.Headers.Backlog))

	pdf.SetFont(defaultFamily, "B", 10)
	setText(pdf, colorBlack)
	pdf.MultiCell(0, 5, tr(text.Headers.Mission), "", "L", false)
	writeBody(pdf, tr, export.ProjectMission)
	pdf.Ln(3)

	for _, story := range export.UserStories {
		pdf.SetFont(defaultFamily, "B", 10)
		setText(pdf, colorBlack)
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s  %s  [%s: %s]", story.ID, story.Title, text.Headers.Priority, story.Priority)), "", "L", false)
		writeBody(pdf, tr, story.Description)

		pdf.SetFont(defaultFamily, "I", 9)
		setText(pdf, colorMuted)
		pdf.MultiCell(0, 4.5, tr(text.Headers.Criteria+":"), "", "L", false)
		pdf.SetFont(defaultFamily, "", 9)
		setText(pdf, colorBody)
		for _, c := range story.AcceptanceCriteria {
			pdf.SetX(pageMargin + 4)
			pdf.MultiCell(0, 4.5, tr("• "+c), "", "L", false)
		}
		pdf.Ln(3)
	}
}

func writeHeading(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont(defaultFamily, "B", 12)
	setText(pdf, colorBlack)
	pdf.MultiCell(0, 6, tr(title), "", "L", false)
	pdf.Ln(1)
}

func writeBody(pdf *fpdf.Fpdf, tr func(string) string, body string) {
	pdf.SetFont(defaultFamily, "", 10)
	setText(pdf, colorBody)
	pdf.MultiCell(0, 5, tr(body), "", "L", false)
}

func formatDate(p *types.Proposal) string {
	if p.Language == types.LanguageDutch {
		return p.GeneratedAt.Format("02-01-2006")
	}
	return p.GeneratedAt.Format("January 2, 2006")
}

func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }

// symbolFallback spells out symbols the core fonts cannot draw.
var symbolFallback = map[rune]string{
	'→': "->", '←': "<-", '⇒': "=>", '↔': "<->",
	'≥': ">=", '≤': "<=", '≠': "!=", '≈': "~",
	'✓': "v", '✔': "v", '✗': "x", '✘': "x",
	'Ł': "L", 'ł': "l", 'Đ': "D", 'đ': "d", 'ı': "i",
}

// foldText maps text onto cp1252, the code page of the core PDF fonts.
// Accents outside cp1252 are stripped, known symbols are spelled out and
// anything else (emoji, CJK) becomes '?'.
func foldText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if encodable(r) {
			b.WriteRune(r)
			continue
		}
		if alt, ok := symbolFallback[r]; ok {
			b.WriteString(alt)
			continue
		}
		if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
			continue
		}
		if base := foldRune(r); base != "" {
			b.WriteString(base)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

func foldRune(r rune) string {
	var out []rune
	for _, d := range norm.NFKD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if !encodable(d) {
			return ""
		}
		out = append(out, d)
	}
	return string(out)
}

func encodable(r rune) bool {
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}
