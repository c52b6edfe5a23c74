package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCandidateSelectionThreshold(t *testing.T) {
	t.Parallel()

	c, err := NewCandidate("  "+strings.Repeat("a", 25)+"  ", SourceSelection)
	require.NoError(t, err)
	assert.Equal(t, SourceSelection, c.Source)
	assert.Equal(t, 25, c.Length)
	assert.Equal(t, strings.Repeat("a", 25), c.Text)

	_, err = NewCandidate(strings.Repeat("a", 15), SourceSelection)
	assert.ErrorIs(t, err, ErrCandidateRejected)

	_, err = NewCandidate(strings.Repeat("a", 20), SourceSelection)
	assert.ErrorIs(t, err, ErrCandidateRejected, "exactly 20 chars must be rejected")
}

func TestNewCandidatePageScanThreshold(t *testing.T) {
	t.Parallel()

	_, err := NewCandidate(strings.Repeat("b", 100), SourcePageScan)
	assert.ErrorIs(t, err, ErrCandidateRejected)

	c, err := NewCandidate(strings.Repeat("b", 101), SourcePageScan)
	require.NoError(t, err)
	assert.Equal(t, 101, c.Length)
}

func TestNewCandidateCountsRunes(t *testing.T) {
	t.Parallel()

	c, err := NewCandidate(strings.Repeat("é", 21), SourceSelection)
	require.NoError(t, err)
	assert.Equal(t, 21, c.Length)
}

func TestVerdictFlagged(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		verdict Verdict
		want    bool
	}{
		{"fake above threshold", Verdict{IsPotentiallyFake: true, Confidence: 0.85}, true},
		{"fake at threshold", Verdict{IsPotentiallyFake: true, Confidence: 0.7}, false},
		{"fake below threshold", Verdict{IsPotentiallyFake: true, Confidence: 0.5}, false},
		{"real high confidence", Verdict{IsPotentiallyFake: false, Confidence: 0.99}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.verdict.Flagged(FlagThreshold), tc.name)
	}
}

func TestBadgeRender(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Badge{}, BadgeEmpty.Render())
	assert.Equal(t, Badge{Text: "...", Color: "#666666"}, BadgePending.Render())
	assert.Equal(t, Badge{Text: "!", Color: "#FF0000"}, BadgeFlagged.Render())
	assert.Equal(t, BadgeEmpty, TabClear.Badge())
	assert.Equal(t, BadgeEmpty, TabIdle.Badge())
}

func TestStatusErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	var err error = &StatusError{Code: 500, Status: "500 Internal Server Error"}
	assert.True(t, errors.Is(err, ErrClassifierStatus))
	assert.False(t, errors.Is(err, ErrClassifierUnreachable))
	assert.Equal(t, "classifier returned 500 Internal Server Error", err.Error())
}
