package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const userAgent = "FakeNewsDetector/1.0"

// Page is a parsed document together with the URL it was loaded from.
type Page struct {
	URL string
	Doc *goquery.Document
}

// NewPage parses HTML from r. The URL is kept only for the article heuristics.
func NewPage(pageURL string, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Page{URL: pageURL, Doc: doc}, nil
}

// ParseHTML is NewPage for an in-memory string.
func ParseHTML(pageURL, html string) (*Page, error) {
	return NewPage(pageURL, strings.NewReader(html))
}

// FetchPage downloads pageURL and parses it, decoding the body by its declared charset.
func FetchPage(ctx context.Context, client *http.Client, pageURL string) (*Page, error) {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned %s", pageURL, resp.Status)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return NewPage(finalURL, body)
}

// Title returns the trimmed document title.
func (p *Page) Title() string {
	if p == nil || p.Doc == nil {
		return ""
	}
	return strings.TrimSpace(p.Doc.Find("title").First().Text())
}
