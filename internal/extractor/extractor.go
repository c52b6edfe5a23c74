// Package extractor decides whether a page is worth analyzing and pulls out
// the text that should be sent to the classifier.
package extractor

import (
	"strings"
	"unicode/utf8"

	"FakeNewsDetector/internal/domain"
)

// Defaults used when Options leaves a field empty.
var (
	DefaultNewsPatterns = []string{"/news/", "/article/", "/story/", "news.", ".article", "/politics/"}
	DefaultSelectors    = []string{
		"article",
		".article-content",
		".entry-content",
		".post-content",
		`[itemprop="articleBody"]`,
		".news-article",
		".story-body",
		".story-content",
		"#article-body",
	}
	DefaultDenylist = []string{"nav", "menu", "sidebar", "footer", "comment"}
)

const (
	DefaultArticleThreshold   = 2
	DefaultTitleLength        = 30
	DefaultMinParagraphLength = 50
)

// Options tunes the heuristics.
type Options struct {
	ArticleThreshold   int
	TitleLength        int
	MinParagraphLength int
	NewsPatterns       []string
	Selectors          []string
	Denylist           []string
}

func (o Options) withDefaults() Options {
	if o.ArticleThreshold <= 0 {
		o.ArticleThreshold = DefaultArticleThreshold
	}
	if o.TitleLength <= 0 {
		o.TitleLength = DefaultTitleLength
	}
	if o.MinParagraphLength <= 0 {
		o.MinParagraphLength = DefaultMinParagraphLength
	}
	if len(o.NewsPatterns) == 0 {
		o.NewsPatterns = DefaultNewsPatterns
	}
	if len(o.Selectors) == 0 {
		o.Selectors = DefaultSelectors
	}
	if len(o.Denylist) == 0 {
		o.Denylist = DefaultDenylist
	}
	return o
}

// Signals are the four independent article indicators.
type Signals struct {
	NewsURL        bool
	ArticleMeta    bool
	ArticleElement bool
	LongTitle      bool
}

// Score counts true signals; the result is always in [0,4].
func (s Signals) Score() int {
	score := 0
	for _, b := range []bool{s.NewsURL, s.ArticleMeta, s.ArticleElement, s.LongTitle} {
		if b {
			score++
		}
	}
	return score
}

// Extractor holds the configured heuristics. It keeps no per-page state.
type Extractor struct {
	opts  Options
	chain *Chain
}

// New builds an extractor; zero-valued options fall back to the defaults.
func New(opts Options) *Extractor {
	opts = opts.withDefaults()

	chain := NewChain()
	for _, sel := range opts.Selectors {
		chain.Register(SelectorStrategy(sel))
	}
	chain.Register(ParagraphStrategy(opts.MinParagraphLength, opts.Denylist))

	return &Extractor{opts: opts, chain: chain}
}

// Signals evaluates each article indicator for page.
func (e *Extractor) Signals(page *Page) Signals {
	if page == nil || page.Doc == nil {
		return Signals{}
	}

	url := strings.ToLower(page.URL)
	var s Signals
	s.NewsURL = containsAny(url, e.opts.NewsPatterns)

	if content, ok := page.Doc.Find(`meta[property="og:type"]`).First().Attr("content"); ok {
		s.ArticleMeta = content == "article"
	}
	s.ArticleElement = page.Doc.Find("article").Length() > 0
	s.LongTitle = utf8.RuneCountInString(page.Title()) > e.opts.TitleLength
	return s
}

// DetectArticleLikelihood returns the article score for page.
func (e *Extractor) DetectArticleLikelihood(page *Page) int {
	return e.Signals(page).Score()
}

// IsArticleLike applies the configured score threshold.
func (e *Extractor) IsArticleLike(page *Page) bool {
	return e.DetectArticleLikelihood(page) >= e.opts.ArticleThreshold
}

// ExtractMainContent returns the best-effort main text of page, or "".
func (e *Extractor) ExtractMainContent(page *Page) string {
	text, _ := e.chain.Run(page)
	return text
}

// ExtractWithStrategy is ExtractMainContent that also names the winning strategy.
func (e *Extractor) ExtractWithStrategy(page *Page) (string, string) {
	return e.chain.Run(page)
}

// FilterSelection wraps a user selection as a candidate, or returns nil when too short.
func FilterSelection(raw string) *domain.ContentCandidate {
	return filter(raw, domain.SourceSelection)
}

// FilterPageScan wraps extracted page text as a candidate, or returns nil when too short.
func FilterPageScan(raw string) *domain.ContentCandidate {
	return filter(raw, domain.SourcePageScan)
}

func filter(raw string, source domain.CandidateSource) *domain.ContentCandidate {
	c, err := domain.NewCandidate(raw, source)
	if err != nil {
		return nil
	}
	return &c
}
