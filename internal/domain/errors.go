package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCandidateRejected marks text below the source length floor. It is a silent no-op.
	ErrCandidateRejected = errors.New("candidate rejected")
	// ErrExtractionEmpty means the page yielded no usable content.
	ErrExtractionEmpty = errors.New("insufficient content")
	// ErrNoDocument means no document is loaded for the tab.
	ErrNoDocument = errors.New("no document loaded for tab")
	// ErrClassifierUnreachable wraps transport failures talking to the classifier.
	ErrClassifierUnreachable = errors.New("classifier unreachable")
	// ErrClassifierStatus is matched by StatusError.
	ErrClassifierStatus = errors.New("classifier error status")
	// ErrResultTimeout means no new result arrived before the poll delay elapsed.
	ErrResultTimeout = errors.New("result timeout")
	// ErrNoResult means no verdict has been stored yet.
	ErrNoResult = errors.New("no result stored")
)

// StatusError is returned when the classifier answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("classifier returned %s", e.Status)
	}
	return fmt.Sprintf("classifier returned %s: %s", e.Status, e.Body)
}

// Is lets errors.Is(err, ErrClassifierStatus) match any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrClassifierStatus
}
