package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opinity/proposal-generator/internal/types"
)

// Artifact is one rendered file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Bundle renders every format applicable to p concurrently. Basic proposals yield the PDF only.
// Artifacts are returned in PDF, JSON, CSV order.
func Bundle(ctx context.Context, p *types.Proposal, now time.Time) ([]Artifact, error) {
	if p == nil {
		panic("export: nil proposal")
	}
	formats := []Format{FormatPDF}
	if p.IsExtended() {
		formats = append(formats, FormatJSON, FormatCSV)
	}

	artifacts := make([]Artifact, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderBytes(func(w io.Writer) error { return Render(ctx, w, f, p, now) })
			if err != nil {
				return fmt.Errorf("render %s: %w", f, err)
			}
			artifacts[i] = Artifact{Name: f.FileName(), ContentType: f.ContentType(), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// WriteZip packs artifacts into a zip archive.
func WriteZip(w io.Writer, artifacts []Artifact) error {
	zw := zip.NewWriter(w)
	for _, a := range artifacts {
		f, err := zw.Create(a.Name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", a.Name, err)
		}
		if _, err := f.Write(a.Data); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Name, err)
		}
	}
	return zw.Close()
}
