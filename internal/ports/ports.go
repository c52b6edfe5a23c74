package ports

import (
	"context"

	"FakeNewsDetector/internal/domain"
)

// Classifier scores a piece of text remotely.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.Verdict, error)
}

// HealthChecker reports whether the classifier service is ready.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ResultStore keeps the single durable lastResult slot.
// Load returns domain.ErrNoResult when nothing has been stored yet.
type ResultStore interface {
	Load(ctx context.Context) (domain.Verdict, error)
	Save(ctx context.Context, verdict domain.Verdict) error
}

// BadgeRenderer displays a per-tab badge.
type BadgeRenderer interface {
	SetBadge(ctx context.Context, tabID int, state domain.BadgeState) error
}

// CandidateSource produces an on-demand candidate for a tab.
type CandidateSource interface {
	ExtractCandidate(ctx context.Context, tabID int) (domain.ContentCandidate, error)
}
