package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a podcast pipeline failure. Callers at the outer boundary
// translate the kind into a status code; everything without a kind is
// treated as an internal failure.
type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindScraping          Kind = "scraping_failed"
	KindContentProcessing Kind = "content_processing_failed"
	KindAudioGeneration   Kind = "audio_generation_failed"
)

// Error is a classified pipeline error. The cause is kept so errors.Is and
// errors.As keep working through every stage boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func InvalidInput(message string, cause error) *Error {
	return New(KindInvalidInput, message, cause)
}

func Scraping(message string, cause error) *Error {
	return New(KindScraping, message, cause)
}

func ContentProcessing(message string, cause error) *Error {
	return New(KindContentProcessing, message, cause)
}

func AudioGeneration(message string, cause error) *Error {
	return New(KindAudioGeneration, message, cause)
}

// KindOf returns the kind of the outermost classified error in err's chain.
// ok is false when nothing in the chain is classified.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// HasKind reports whether any classified error in the chain has the kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

func IsInvalidInput(err error) bool      { return HasKind(err, KindInvalidInput) }
func IsScraping(err error) bool          { return HasKind(err, KindScraping) }
func IsContentProcessing(err error) bool { return HasKind(err, KindContentProcessing) }
func IsAudioGeneration(err error) bool   { return HasKind(err, KindAudioGeneration) }

// Message returns the user-facing message of the outermost classified error,
// or the empty string when err is unclassified.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}
