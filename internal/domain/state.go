package domain

// BadgeState is the per-tab indicator shown to the user.
type BadgeState string

const (
	BadgeEmpty   BadgeState = "empty"
	BadgePending BadgeState = "pending"
	BadgeFlagged BadgeState = "flagged"
)

// Badge is the rendered form of a BadgeState. An empty Color leaves the colour untouched.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Render maps the state to badge text and background colour.
func (s BadgeState) Render() Badge {
	switch s {
	case BadgePending:
		return Badge{Text: "...", Color: "#666666"}
	case BadgeFlagged:
		return Badge{Text: "!", Color: "#FF0000"}
	default:
		return Badge{}
	}
}

// TabState tracks where a tab is in the analysis round-trip.
type TabState string

const (
	TabIdle    TabState = "idle"
	TabPending TabState = "pending"
	TabFlagged TabState = "flagged"
	TabClear   TabState = "clear"
)

// Badge returns the badge a tab in this state should display.
func (s TabState) Badge() BadgeState {
	switch s {
	case TabPending:
		return BadgePending
	case TabFlagged:
		return BadgeFlagged
	default:
		return BadgeEmpty
	}
}

// AnalysisRequest is one classification round-trip owned by the orchestrator.
type AnalysisRequest struct {
	ID        string
	TabID     int
	Seq       uint64
	Candidate ContentCandidate
}
