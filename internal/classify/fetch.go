package classify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
	maxMainTextLen    = 1000
	maxFetchBytes     = 5 * 1024 * 1024

	// DefaultUserAgent identifies page fetches made on behalf of the classifier.
	DefaultUserAgent = "DoLater-Classifier/1.0"
)

// Fetcher retrieves the readable parts of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// HTTPFetcher fetches pages over HTTP. HTML is parsed for the title, meta
// description and main/article text; PDF documents yield their plain text.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher returns a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: DefaultUserAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return Page{}, fmt.Errorf("reading response: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/pdf" {
		return parsePDF(body)
	}
	return ParseHTML(body)
}

// ParseHTML extracts a Page from raw markup.
func ParseHTML(raw []byte) (Page, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return Page{}, fmt.Errorf("parsing html: %w", err)
	}

	var p Page
	var ogDescription string
	var main, article *html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if p.Title == "" {
					p.Title = collapse(extractText(n))
				}
			case "meta":
				name := strings.ToLower(getAttr(n, "name"))
				prop := strings.ToLower(getAttr(n, "property"))
				switch {
				case name == "description" && p.Description == "":
					p.Description = collapse(getAttr(n, "content"))
				case prop == "og:description" && ogDescription == "":
					ogDescription = collapse(getAttr(n, "content"))
				}
			case "main":
				if main == nil {
					main = n
				}
			case "article":
				if article == nil {
					article = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if p.Description == "" {
		p.Description = ogDescription
	}
	if main == nil {
		main = article
	}
	if main != nil {
		p.MainText = collapse(extractText(main))
	}

	p.Title = Truncate(p.Title, maxTitleLen)
	p.Description = Truncate(p.Description, maxDescriptionLen)
	p.MainText = Truncate(p.MainText, maxMainTextLen)
	return p, nil
}

func parsePDF(raw []byte) (Page, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return Page{}, fmt.Errorf("opening pdf: %w", err)
	}
	text, err := r.GetPlainText()
	if err != nil {
		return Page{}, fmt.Errorf("extracting pdf text: %w", err)
	}
	b, err := io.ReadAll(text)
	if err != nil {
		return Page{}, fmt.Errorf("reading pdf text: %w", err)
	}
	return Page{MainText: Truncate(collapse(string(b)), maxMainTextLen)}, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// extractText returns the text under n, skipping non-content elements.
func extractText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "section", "li", "br", "h1", "h2", "h3", "h4", "h5", "h6", "td":
				b.WriteByte(' ')
			}
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
