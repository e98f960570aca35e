package services

import (
	"errors"
	"fmt"
)

// ErrLessonNotFound is returned when a lesson id does not exist in the store.
var ErrLessonNotFound = errors.New("lesson not found")

// CompletionError indicates the completion provider was unreachable or
// rejected the request.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion provider %s failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// RecoverableParseError indicates generated text did not match the expected
// structure. The caller decides whether to retry generation or give up.
type RecoverableParseError struct {
	Reason string
	Raw    string
}

func (e *RecoverableParseError) Error() string {
	return fmt.Sprintf("unparseable model output: %s", e.Reason)
}

// TranscriptUnavailableError indicates a video has no retrievable captions.
type TranscriptUnavailableError struct {
	VideoID string
	Err     error
}

func (e *TranscriptUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcript unavailable for video %s: %v", e.VideoID, e.Err)
	}
	return fmt.Sprintf("transcript unavailable for video %s", e.VideoID)
}

func (e *TranscriptUnavailableError) Unwrap() error { return e.Err }

// StoreError indicates a persistence read or write failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// GenerationError indicates a syllabus or lesson generation aborted before
// anything was persisted. It always wraps the underlying completion or
// parse error.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
