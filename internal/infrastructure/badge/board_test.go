package badge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FakeNewsDetector/internal/domain"
)

func TestBoardRendersStates(t *testing.T) {
	t.Parallel()

	board := NewBoard(nil)
	ctx := context.Background()

	assert.Equal(t, "", board.Get(1).Text)
	assert.Equal(t, domain.BadgeEmpty, board.Get(1).State)

	require.NoError(t, board.SetBadge(ctx, 1, domain.BadgePending))
	got := board.Get(1)
	assert.Equal(t, "...", got.Text)
	assert.Equal(t, "#666666", got.Color)

	require.NoError(t, board.SetBadge(ctx, 1, domain.BadgeFlagged))
	got = board.Get(1)
	assert.Equal(t, "!", got.Text)
	assert.Equal(t, "#FF0000", got.Color)

	require.NoError(t, board.SetBadge(ctx, 1, domain.BadgeEmpty))
	assert.Equal(t, "", board.Get(1).Text)
	assert.Empty(t, board.All())
}

func TestBoardTabsAreIndependent(t *testing.T) {
	t.Parallel()

	board := NewBoard(nil)
	ctx := context.Background()
	require.NoError(t, board.SetBadge(ctx, 7, domain.BadgeFlagged))
	require.NoError(t, board.SetBadge(ctx, 3, domain.BadgePending))

	all := board.All()
	require.Len(t, all, 2)
	assert.Equal(t, 3, all[0].TabID)
	assert.Equal(t, 7, all[1].TabID)
	assert.Equal(t, domain.BadgeEmpty, board.Get(5).State)
}
