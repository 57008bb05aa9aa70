package bencode

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every way a parse or conversion can fail.
// Errors returned by this package match these with errors.Is.
var (
	// ErrMalformedLength reports a non-decimal, leading-zero, or otherwise
	// unparsable length or integer field.
	ErrMalformedLength = errors.New("bencode: malformed length")

	// ErrTruncated reports input that ends before a declared length or
	// close marker is satisfied.
	ErrTruncated = errors.New("bencode: truncated input")

	// ErrInvalidMarker reports a byte that starts no bencode value.
	ErrInvalidMarker = errors.New("bencode: invalid marker")

	// ErrInvalidKey reports a dictionary key that is not a byte string.
	ErrInvalidKey = errors.New("bencode: invalid dictionary key")

	// ErrDuplicateKey reports a repeated dictionary key when
	// ParseOptions.RejectDuplicateKeys is set.
	ErrDuplicateKey = errors.New("bencode: duplicate dictionary key")

	// ErrIntegerRange reports an integer that does not fit in int64.
	ErrIntegerRange = errors.New("bencode: integer out of range")

	// ErrTextDecode reports a byte string that is not valid UTF-8 on the
	// strict text path (AsText). Lossy paths never return it.
	ErrTextDecode = errors.New("bencode: byte string is not valid UTF-8")

	// ErrTrailingData reports leftover bytes after the value in Decode.
	ErrTrailingData = errors.New("bencode: trailing data after value")
)

// SyntaxError is a parse failure with location. It wraps one of the
// package sentinel errors, so callers can classify it with errors.Is and
// still see the offset and the construct that failed.
type SyntaxError struct {
	Offset int    // byte offset into the input where the failure was detected
	Err    error  // sentinel classifying the failure
	Msg    string // human-readable detail
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
