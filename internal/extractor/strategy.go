package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of locating main content. matched reports whether the
// strategy applied to the page at all; a matched strategy ends the chain even
// when its text is empty.
type Strategy interface {
	Name() string
	Extract(page *Page) (text string, matched bool)
}

// Chain tries strategies in registration order; the first match wins.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain from strategies in priority order.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Register appends a lower-priority strategy.
func (c *Chain) Register(strategy Strategy) {
	c.strategies = append(c.strategies, strategy)
}

// Names lists strategies in priority order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Run returns the text of the first matching strategy and its name.
func (c *Chain) Run(page *Page) (string, string) {
	if page == nil || page.Doc == nil {
		return "", ""
	}
	for _, s := range c.strategies {
		if text, ok := s.Extract(page); ok {
			return text, s.Name()
		}
	}
	return "", ""
}

type selectorStrategy struct {
	selector string
}

// SelectorStrategy matches the first element for a CSS selector and returns its trimmed text.
func SelectorStrategy(selector string) Strategy {
	return selectorStrategy{selector: selector}
}

func (s selectorStrategy) Name() string { return "selector:" + s.selector }

func (s selectorStrategy) Extract(page *Page) (string, bool) {
	sel := page.Doc.Find(s.selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

type paragraphStrategy struct {
	minLength int
	denylist  []string
}

// ParagraphStrategy keeps <p> texts longer than minLength whose parent's class
// contains none of denylist, joined with a single space. It always matches.
func ParagraphStrategy(minLength int, denylist []string) Strategy {
	lowered := make([]string, 0, len(denylist))
	for _, d := range denylist {
		lowered = append(lowered, strings.ToLower(d))
	}
	return paragraphStrategy{minLength: minLength, denylist: lowered}
}

func (p paragraphStrategy) Name() string { return "paragraphs" }

func (p paragraphStrategy) Extract(page *Page) (string, bool) {
	var kept []string
	page.Doc.Find("p").Each(func(_ int, para *goquery.Selection) {
		text := strings.TrimSpace(para.Text())
		if utf8.RuneCountInString(text) <= p.minLength {
			return
		}
		class, _ := para.Parent().Attr("class")
		if containsAny(strings.ToLower(class), p.denylist) {
			return
		}
		kept = append(kept, text)
	})
	return strings.Join(kept, " "), true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
