package domain

// FlagThreshold is the confidence a fake verdict must strictly exceed to raise the badge.
const FlagThreshold = 0.7

// Verdict is the classifier judgement. The JSON shape is also the persisted lastResult shape.
type Verdict struct {
	IsPotentiallyFake bool    `json:"is_potentially_fake"`
	Confidence        float64 `json:"confidence"`
	Label             string  `json:"label,omitempty"`
	// TextSample is the classifier's echo of the analyzed text.
	TextSample        string  `json:"text_sample,omitempty"`
}

// Flagged reports whether the verdict raises the badge at the given threshold.
func (v Verdict) Flagged(threshold float64) bool {
	return v.IsPotentiallyFake && v.Confidence > threshold
}

// ConfidencePercent returns confidence scaled to 0-100.
func (v Verdict) ConfidencePercent() float64 {
	return v.Confidence * 100
}
