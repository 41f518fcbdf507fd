package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kalambet/dolater/internal/content"
)

// Analyzer classifies content, fetching the linked page when the caller
// supplied no body text.
type Analyzer struct {
	fetcher Fetcher
}

// NewAnalyzer creates an Analyzer. A nil fetcher disables page fetches.
func NewAnalyzer(f Fetcher) *Analyzer {
	return &Analyzer{fetcher: f}
}

// Analyze never fails: a fetch error is logged and classification proceeds
// with whatever the caller provided.
func (a *Analyzer) Analyze(ctx context.Context, title, body, url string) Result {
	in := Input{Title: title, Body: body, URL: url}

	if a.fetcher != nil && strings.TrimSpace(body) == "" && isFetchable(url) {
		page, err := a.fetcher.Fetch(ctx, url)
		if err != nil {
			slog.Warn("page fetch failed, classifying from title only", "url", url, "error", err)
		} else {
			in.Page = page
		}
	}

	return Classify(in)
}

func isFetchable(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || url == content.PlaceholderURL {
		return false
	}
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
