package ratings

import "errors"

var (
	// ErrPostNotFound indicates the post being voted on doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidDirection indicates the vote direction is not "up", "down" or "none"
	ErrInvalidDirection = errors.New("invalid vote direction: must be 'up', 'down' or 'none'")
)
