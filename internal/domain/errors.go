package domain

import "errors"

// Sentinel errors for chapter metadata
var (
	// ErrMissingField indicates a record lacks id, order, start or end
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidInterval indicates a record whose start is not before its end
	ErrInvalidInterval = errors.New("start must be before end")

	// ErrDuplicateID indicates a record reuses an id already in the set
	ErrDuplicateID = errors.New("duplicate chapter id")

	// ErrDuplicateOrder indicates a record reuses an order already in the set
	ErrDuplicateOrder = errors.New("duplicate chapter order")

	// ErrChapterNotFound indicates the requested chapter does not exist
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrUnsupportedSource indicates no adapter can read the metadata source
	ErrUnsupportedSource = errors.New("unsupported chapter source")

	// ErrPlayerUnavailable indicates the player cannot be reached
	ErrPlayerUnavailable = errors.New("player is unreachable")
)
