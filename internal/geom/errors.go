package geom

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedToken is matched by every *TokenError.
	ErrMalformedToken = errors.New("malformed coordinate token")

	ErrUnsupportedType = errors.New("unsupported geometry type")
	ErrEmptyGeometry   = errors.New("empty geometry")

	errMissingY  = errors.New("missing second coordinate")
	errNotFinite = errors.New("coordinate is not a finite number")
)

// TokenError reports a point token that could not be turned into a
// coordinate pair.
type TokenError struct {
	Index int    // position of the token in its point set
	Token string // the raw token
	Err   error  // underlying parse failure
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("geom: token %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrMalformedToken }
