package act
// Error kinds returned by the act package. Callers should match against these with errors.Is
// rather than comparing error text.

import (
  "errors"
  "fmt"
)

var (
  // ErrValidation marks malformed input bytes: non-canonical jumps, missing row/frame
  // terminators, both color sources disabled, an index exceeding the palette length.
  ErrValidation = errors.New("act: validation failure")

  // ErrBoundary marks a value that is out of the range the format or model allows: a
  // frame dimension over 256, a raster larger than its parent image, an offset that
  // would push a frame outside [0, 256) relative to center, a center outside [0, size).
  ErrBoundary = errors.New("act: boundary failure")

  // ErrFormat marks a caller-supplied value of the wrong kind: a non-8-bit-indexed
  // raster where the API requires one, a length_bit_count outside {3,4,5}.
  ErrFormat = errors.New("act: format failure")

  // ErrState marks an operation that is invalid given the receiver's current state:
  // saving an image with no path, adding to a full frame collection, shrinking a
  // collection without allowTruncate, placing a frame that is not attached to an image.
  // Removing the last remaining frame is refused by RemoveAt with a false result and a
  // nil error, not with ErrState.
  ErrState = errors.New("act: state failure")

  // ErrIO wraps a file-system error encountered while loading or saving an image.
  ErrIO = errors.New("act: i/o failure")
)

// codecError pairs one of the sentinel kinds above with a specific message, so that
// errors.Is(err, ErrValidation) (etc.) keeps working after fmt.Errorf("...: %w", err).
type codecError struct {
  kind error
  msg  string
}

func (e *codecError) Error() string { return e.msg }
func (e *codecError) Unwrap() error { return e.kind }

func validationf(format string, args ...interface{}) error {
  return &codecError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func boundaryf(format string, args ...interface{}) error {
  return &codecError{kind: ErrBoundary, msg: fmt.Sprintf(format, args...)}
}

func formatf(format string, args ...interface{}) error {
  return &codecError{kind: ErrFormat, msg: fmt.Sprintf(format, args...)}
}

func statef(format string, args ...interface{}) error {
  return &codecError{kind: ErrState, msg: fmt.Sprintf(format, args...)}
}

func iof(format string, args ...interface{}) error {
  return &codecError{kind: ErrIO, msg: fmt.Sprintf(format, args...)}
}
