package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ctx := context.Background()

	var navigated []int
	bus.OnTabNavigated(func(_ context.Context, ev TabNavigated) { navigated = append(navigated, ev.TabID) })
	bus.OnTabNavigated(func(_ context.Context, ev TabNavigated) { navigated = append(navigated, ev.TabID*10) })

	var selected []string
	bus.OnSelectionChanged(func(_ context.Context, ev SelectionChanged) { selected = append(selected, ev.Text) })

	var ready int
	bus.OnDocumentReady(func(_ context.Context, ev DocumentReady) { ready = ev.TabID })

	bus.PublishTabNavigated(ctx, TabNavigated{TabID: 3})
	bus.PublishSelectionChanged(ctx, SelectionChanged{TabID: 3, Text: "hello"})
	bus.PublishDocumentReady(ctx, DocumentReady{TabID: 7})

	assert.Equal(t, []int{3, 30}, navigated)
	assert.Equal(t, []string{"hello"}, selected)
	assert.Equal(t, 7, ready)
}

func TestBusSend(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	bus.Handle(ActionCheckArticle, func(_ context.Context, msg Message) Response {
		return Response{Success: msg.Text() == "body"}
	})

	resp, err := bus.Send(context.Background(), Message{Action: ActionCheckArticle, Content: "body"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = bus.Send(context.Background(), Message{Action: ActionAnalyzePage})
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestMessageTextPrefersSelection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sel", Message{Selection: "sel", Content: "content"}.Text())
	assert.Equal(t, "content", Message{Content: "content"}.Text())
}
