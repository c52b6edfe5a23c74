package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CandidateSource tells where a piece of text came from.
type CandidateSource string

const (
	SourceSelection CandidateSource = "selection"
	SourcePageScan  CandidateSource = "page_scan"
)

// Minimum trimmed lengths (exclusive) a text must exceed to become a candidate.
const (
	MinSelectionLength = 20
	MinPageScanLength  = 100
)

// MinLength returns the exclusive length floor for the source.
func (s CandidateSource) MinLength() int {
	if s == SourceSelection {
		return MinSelectionLength
	}
	return MinPageScanLength
}

// ContentCandidate is text that passed the length gate and may be classified.
type ContentCandidate struct {
	Text   string
	Source CandidateSource
	Length int
}

// NewCandidate trims raw and wraps it when it is long enough for its source.
func NewCandidate(raw string, source CandidateSource) (ContentCandidate, error) {
	text := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(text)
	if length <= source.MinLength() {
		return ContentCandidate{}, fmt.Errorf("%s of %d chars: %w", source, length, ErrCandidateRejected)
	}
	return ContentCandidate{Text: text, Source: source, Length: length}, nil
}
