// Package export renders a proposal into downloadable documents: a branded PDF and the
// Azure DevOps backlog as JSON or CSV.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/opinity/proposal-generator/internal/types"
)

// ErrExtendedOnly is returned when a backlog export is requested for a proposal without a backlog.
var ErrExtendedOnly = errors.New("export requires an extended proposal with an Azure DevOps backlog")

// Format is a downloadable export.
type Format string

// Supported formats
const (
	FormatPDF    Format = "pdf"
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatBundle Format = "bundle"
)

// File names offered to the browser
const (
	PDFFileName    = "opinity-proposal.pdf"
	JSONFileName   = "azure-devops-export.json"
	CSVFileName    = "azure-devops-user-stories.csv"
	BundleFileName = "opinity-proposal.zip"
)

// ParseFormat converts a path segment into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPDF, FormatJSON, FormatCSV, FormatBundle:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FileName returns the download name of f.
func (f Format) FileName() string {
	switch f {
	case FormatPDF:
		return PDFFileName
	case FormatJSON:
		return JSONFileName
	case FormatCSV:
		return CSVFileName
	default:
		return BundleFileName
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/zip"
	}
}

// RequiresExtended reports whether f needs the backlog.
func (f Format) RequiresExtended() bool {
	return f == FormatJSON || f == FormatCSV
}

// Render writes p in format f. The bundle contains every format applicable to p.
func Render(ctx context.Context, w io.Writer, f Format, p *types.Proposal, now time.Time) error {
	switch f {
	case FormatPDF:
		return RenderPDF(w, p)
	case FormatJSON:
		return RenderJSON(w, p, now)
	case FormatCSV:
		return RenderCSV(w, p)
	case FormatBundle:
		return renderBundle(ctx, w, p, now)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

func renderBundle(ctx context.Context, w io.Writer, p *types.Proposal, now time.Time) error {
	artifacts, err := Bundle(ctx, p, now)
	if err != nil {
		return err
	}
	return WriteZip(w, artifacts)
}

// backlog returns the export section of p or ErrExtendedOnly. A nil proposal panics.
func backlog(p *types.Proposal) (*types.AzureDevOpsExport, error) {
	if p == nil {
		panic("export: nil proposal")
	}
	if !p.IsExtended() {
		return nil, ErrExtendedOnly
	}
	return p.Data.AzureDevOpsExport, nil
}

func renderBytes(fn func(io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
