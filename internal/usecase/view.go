package usecase

import (
	"errors"
	"fmt"
	"strings"

	"FakeNewsDetector/internal/domain"
)

// ViewKind selects which popup state is shown.
type ViewKind string

const (
	ViewNoContent           ViewKind = "no_content"
	ViewPending             ViewKind = "pending"
	ViewResult              ViewKind = "result"
	ViewInsufficientContent ViewKind = "insufficient_content"
	ViewNoTab               ViewKind = "no_tab"
	ViewTimeout             ViewKind = "timeout"
	ViewClassifierError     ViewKind = "classifier_error"
)

const (
	noContentMessage = "No content analyzed yet. Highlight text on a page or click Analyze Page."
	pendingMessage   = "Analyzing content..."
	noTabMessage     = "Couldn't extract content from this page. Try highlighting specific text instead."
	timeoutMessage   = "Analysis is taking longer than expected. Please try again."

	misleadingTitle   = "Potentially Misleading"
	misleadingMessage = "This content contains characteristics common in misleading or false information. Please verify with trusted sources."
	reliableTitle     = "Likely Reliable"
	reliableMessage   = "No significant indicators of misinformation detected in this content."
)

// View is the rendered popup.
type View struct {
	Kind       ViewKind `json:"kind"`
	Title      string   `json:"title,omitempty"`
	Message    string   `json:"message"`
	Indicator  string   `json:"indicator,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
	// Percent drives the width of the confidence bar.
	Percent float64 `json:"percent,omitempty"`
	Label   string  `json:"label,omitempty"`
}

// RenderVerdict picks one of the two fixed presentations; there is no
// in-between state however close confidence is to the threshold.
func RenderVerdict(v domain.Verdict) View {
	percent := v.ConfidencePercent()
	view := View{
		Kind:       ViewResult,
		Confidence: fmt.Sprintf("%.1f%%", percent),
		Percent:    percent,
		Label:      v.Label,
	}
	if v.IsPotentiallyFake {
		view.Title, view.Message, view.Indicator = misleadingTitle, misleadingMessage, "red"
	} else {
		view.Title, view.Message, view.Indicator = reliableTitle, reliableMessage, "green"
	}
	return view
}

func noContentView() View           { return View{Kind: ViewNoContent, Message: noContentMessage} }
func pendingView() View             { return View{Kind: ViewPending, Message: pendingMessage} }
func insufficientContentView() View { return View{Kind: ViewInsufficientContent, Message: insufficientContentMessage} }
func noTabView() View               { return View{Kind: ViewNoTab, Message: noTabMessage} }
func timeoutView() View             { return View{Kind: ViewTimeout, Message: timeoutMessage} }

func classifierErrorView(err error) View {
	msg := "The analysis service could not be reached. Please try again."
	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		msg = fmt.Sprintf("The analysis service returned an error (%d). Please try again.", statusErr.Code)
	}
	return View{Kind: ViewClassifierError, Message: msg}
}

// Text renders the view as plain text for terminals.
func (v View) Text() string {
	if v.Kind != ViewResult {
		return v.Message
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s confidence)\n", v.Title, v.Confidence)
	if v.Label != "" {
		fmt.Fprintf(&b, "Label: %s\n", v.Label)
	}
	b.WriteString(v.Message)
	return b.String()
}
