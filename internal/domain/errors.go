package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a game session id is unknown.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionNotActive is returned when an operation needs a running game.
	ErrSessionNotActive = errors.New("game session not active")
	// ErrAnswerLocked is returned for answers submitted after the current question was already answered.
	ErrAnswerLocked = errors.New("answer already recorded for this question")
	// ErrOptionNotFound indicates a submitted option is not part of the live question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrPlayerNameRequired is returned when a game starts without a player name.
	ErrPlayerNameRequired = errors.New("player name required")
	// ErrUnknownMode indicates an unsupported game mode.
	ErrUnknownMode = errors.New("unknown game mode")
	// ErrCatalogUnavailable is returned when a mode's catalog has no entries.
	ErrCatalogUnavailable = errors.New("catalog unavailable for game mode")
	// ErrUnknownCatalog indicates a catalog kind that does not exist.
	ErrUnknownCatalog = errors.New("unknown catalog")
	// ErrEntryNotFound indicates a catalog entry lookup miss.
	ErrEntryNotFound = errors.New("catalog entry not found")
	// ErrNoResult is returned when a certificate is requested before a game finished.
	ErrNoResult = errors.New("no finished game for session")
	// ErrUnsupportedFormat indicates a certificate format without a renderer.
	ErrUnsupportedFormat = errors.New("unsupported certificate format")
	// ErrMissingCapability means speech synthesis is not available on the platform.
	ErrMissingCapability = errors.New("speech capability unavailable")
)

// LoadError reports a catalog source that was unreachable or malformed.
type LoadError struct {
	Kind CatalogKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s catalog: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PlaybackError reports an audio clip that could not be played.
type PlaybackError struct {
	URL string
	Err error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("play clip %q: %v", e.URL, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
