package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultBrowserTimeout bounds a headless render.
const DefaultBrowserTimeout = 20 * time.Second

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// It is the fallback for pages that only fill in their metadata from JavaScript.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("head"),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}
	return html, nil
}

// Renderer fetches a page and returns its summary.
type Renderer interface {
	Summarize(ctx context.Context, url string) (Summary, error)
}

// SummaryFetcher fetches over plain HTTP and optionally falls back to a headless browser
// when the static page carries no title or description.
type SummaryFetcher struct {
	Options *Options
	Browser bool
	// BrowserTimeout bounds the headless fallback
	BrowserTimeout time.Duration
}

// Summarize implements Renderer.
func (f *SummaryFetcher) Summarize(ctx context.Context, url string) (Summary, error) {
	var summary Summary

	result, err := URL(ctx, url, f.Options)
	if err == nil {
		summary, err = ExtractSummary(result.HTML)
	}
	if err == nil && !summary.Empty() {
		return summary, nil
	}
	if !f.Browser {
		if err != nil {
			return Summary{}, err
		}
		return summary, nil
	}

	html, berr := WithBrowser(ctx, url, f.BrowserTimeout)
	if berr != nil {
		if err != nil {
			return Summary{}, fmt.Errorf("%w (browser fallback: %v)", err, berr)
		}
		return Summary{}, berr
	}
	return ExtractSummary(html)
}
