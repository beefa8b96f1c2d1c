package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWeights is returned by Select when the weight sequence is
	// empty or holds a non-positive weight. It indicates a programming error.
	ErrInvalidWeights = errors.New("markov: invalid weights")
	// ErrUnknownContext is matched by every UnknownContextError.
	ErrUnknownContext = errors.New("markov: unknown context")
	// ErrInvalidLength is returned when fewer than two tokens are requested.
	ErrInvalidLength = errors.New("markov: length must be at least 2")
	// ErrEmptyModel is returned by seed policies that need at least one context.
	ErrEmptyModel = errors.New("markov: model has no contexts")
)

// UnknownContextError reports that generation reached a context the model
// never observed. Position is the index of the token that could not be drawn.
type UnknownContextError struct {
	Context  Context
	Position int
}

func (e *UnknownContextError) Error() string {
	return fmt.Sprintf("markov: unknown context %q at position %d", e.Context.String(), e.Position)
}

// Is reports whether target is ErrUnknownContext.
func (e *UnknownContextError) Is(target error) bool {
	return target == ErrUnknownContext
}
