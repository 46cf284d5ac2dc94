package scene

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("scene: invalid argument")
	ErrEmptySequence   = fmt.Errorf("%w: empty sequence", ErrInvalidArgument)
	ErrUnknownAction   = errors.New("scene: unknown action")
	ErrSessionClosed   = errors.New("scene: session closed")
)
