package usecase

import (
	"context"
	"sync"

	"FakeNewsDetector/internal/domain"
)

type classifyResult struct {
	verdict domain.Verdict
	err     error
}

// gatedClassifier blocks each call until release is called for its text.
type gatedClassifier struct {
	mu     sync.Mutex
	gates  map[string]chan classifyResult
	calls  []string
	onCall func(text string)
}

func newGatedClassifier() *gatedClassifier {
	return &gatedClassifier{gates: map[string]chan classifyResult{}}
}

func (g *gatedClassifier) gate(text string) chan classifyResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[text]
	if !ok {
		ch = make(chan classifyResult, 1)
		g.gates[text] = ch
	}
	return ch
}

func (g *gatedClassifier) Classify(ctx context.Context, text string) (domain.Verdict, error) {
	g.mu.Lock()
	g.calls = append(g.calls, text)
	hook := g.onCall
	g.mu.Unlock()
	if hook != nil {
		hook(text)
	}

	select {
	case r := <-g.gate(text):
		return r.verdict, r.err
	case <-ctx.Done():
		return domain.Verdict{}, ctx.Err()
	}
}

func (g *gatedClassifier) release(text string, v domain.Verdict, err error) {
	g.gate(text) <- classifyResult{verdict: v, err: err}
}

func (g *gatedClassifier) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// instantClassifier answers every call immediately.
type instantClassifier struct {
	verdict domain.Verdict
	err     error
}

func (c instantClassifier) Classify(context.Context, string) (domain.Verdict, error) {
	return c.verdict, c.err
}

type memoryStore struct {
	mu      sync.Mutex
	verdict *domain.Verdict
	saveErr error
	saves   int
}

func (s *memoryStore) Load(context.Context) (domain.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.verdict == nil {
		return domain.Verdict{}, domain.ErrNoResult
	}
	return *s.verdict, nil
}

func (s *memoryStore) Save(_ context.Context, v domain.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.verdict = &v
	return nil
}

type badgeEvent struct {
	tabID int
	state domain.BadgeState
}

type badgeRecorder struct {
	mu     sync.Mutex
	events []badgeEvent
}

func (r *badgeRecorder) SetBadge(_ context.Context, tabID int, state domain.BadgeState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, badgeEvent{tabID: tabID, state: state})
	return nil
}

func (r *badgeRecorder) last(tabID int) domain.BadgeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].tabID == tabID {
			return r.events[i].state
		}
	}
	return domain.BadgeEmpty
}

func (r *badgeRecorder) history(tabID int) []domain.BadgeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BadgeState
	for _, ev := range r.events {
		if ev.tabID == tabID {
			out = append(out, ev.state)
		}
	}
	return out
}

// blockingStore parks every Save until unblock is closed.
type blockingStore struct {
	memoryStore
	entered chan struct{}
	unblock chan struct{}
}

func newBlockingStore() *blockingStore {
	return &blockingStore{entered: make(chan struct{}, 8), unblock: make(chan struct{})}
}

func (s *blockingStore) Save(ctx context.Context, v domain.Verdict) error {
	s.entered <- struct{}{}
	<-s.unblock
	return s.memoryStore.Save(ctx, v)
}
