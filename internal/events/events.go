// Package events is the in-process stand-in for the browser runtime: tab
// lifecycle notifications and a point-to-point message bus.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"FakeNewsDetector/internal/extractor"
)

// ErrNoHandler is returned by Send when no handler owns the action.
var ErrNoHandler = errors.New("no handler for action")

// DocumentReady fires once a tab has finished loading a document.
type DocumentReady struct {
	TabID int
	Page  *extractor.Page
}

// SelectionChanged fires when the user finishes a text selection.
type SelectionChanged struct {
	TabID int
	Text  string
}

// TabNavigated fires when a tab starts loading a new document.
type TabNavigated struct {
	TabID int
}

// Action names a message type on the bus.
type Action string

const (
	ActionCheckSelection Action = "checkSelection"
	ActionCheckArticle   Action = "checkArticle"
	ActionAnalyzePage    Action = "analyzePage"
)

// Message is the typed envelope carried between components.
type Message struct {
	Action    Action `json:"action"`
	TabID     int    `json:"tabId"`
	Selection string `json:"selection,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Text returns the selection payload, falling back to content.
func (m Message) Text() string {
	if m.Selection != "" {
		return m.Selection
	}
	return m.Content
}

// Response answers a Message.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// MessageHandler processes one message.
type MessageHandler func(ctx context.Context, msg Message) Response

// Source is what components subscribe to.
type Source interface {
	OnDocumentReady(func(context.Context, DocumentReady))
	OnSelectionChanged(func(context.Context, SelectionChanged))
	OnTabNavigated(func(context.Context, TabNavigated))
	Handle(action Action, handler MessageHandler)
}

// Sender delivers a message to the component owning its action.
type Sender interface {
	Send(ctx context.Context, msg Message) (Response, error)
}

// Bus dispatches synchronously on the publisher's goroutine.
type Bus struct {
	mu        sync.RWMutex
	ready     []func(context.Context, DocumentReady)
	selection []func(context.Context, SelectionChanged)
	navigated []func(context.Context, TabNavigated)
	handlers  map[Action]MessageHandler
}

var (
	_ Source = (*Bus)(nil)
	_ Sender = (*Bus)(nil)
)

// NewBus builds an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[Action]MessageHandler{}}
}

// OnDocumentReady subscribes fn to finished page loads.
func (b *Bus) OnDocumentReady(fn func(context.Context, DocumentReady)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = append(b.ready, fn)
}

// OnSelectionChanged subscribes fn to text selections.
func (b *Bus) OnSelectionChanged(fn func(context.Context, SelectionChanged)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = append(b.selection, fn)
}

// OnTabNavigated subscribes fn to tab navigations.
func (b *Bus) OnTabNavigated(fn func(context.Context, TabNavigated)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.navigated = append(b.navigated, fn)
}

// Handle registers or replaces the handler for action.
func (b *Bus) Handle(action Action, handler MessageHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[action] = handler
}

// PublishDocumentReady delivers ev to every document-ready subscriber in order.
func (b *Bus) PublishDocumentReady(ctx context.Context, ev DocumentReady) {
	b.mu.RLock()
	subs := append([]func(context.Context, DocumentReady){}, b.ready...)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ctx, ev)
	}
}

// PublishSelectionChanged delivers ev to every selection subscriber in order.
func (b *Bus) PublishSelectionChanged(ctx context.Context, ev SelectionChanged) {
	b.mu.RLock()
	subs := append([]func(context.Context, SelectionChanged){}, b.selection...)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ctx, ev)
	}
}

// PublishTabNavigated delivers ev to every navigation subscriber in order.
func (b *Bus) PublishTabNavigated(ctx context.Context, ev TabNavigated) {
	b.mu.RLock()
	subs := append([]func(context.Context, TabNavigated){}, b.navigated...)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(ctx, ev)
	}
}

// Send routes msg to its handler.
func (b *Bus) Send(ctx context.Context, msg Message) (Response, error) {
	b.mu.RLock()
	handler, ok := b.handlers[msg.Action]
	b.mu.RUnlock()
	if !ok {
		return Response{}, fmt.Errorf("%s: %w", msg.Action, ErrNoHandler)
	}
	return handler(ctx, msg), nil
}
