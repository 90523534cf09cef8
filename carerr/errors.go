// Package carerr defines the named error kinds produced by the car codec
// and access-mode layer.
package carerr

import (
	"errors"
	"fmt"
)

// Sentinel errors comparable with errors.Is. Each corresponds to one of
// the error kinds enumerated in the format's error taxonomy.
var (
	ErrUnexpectedEnd       = errors.New("car: unexpected end of input")
	ErrVarintOverflow      = errors.New("car: varint exceeds maximum of 9 bytes")
	ErrMalformedHeader     = errors.New("car: malformed header")
	ErrMalformedFrame      = errors.New("car: malformed frame")
	ErrInvalidRoots        = errors.New("car: setRoots argument is not a sequence of CIDs")
	ErrInvalidBlock        = errors.New("car: put argument is not a CID and payload")
	ErrHeaderAlreadyWritten = errors.New("car: header already written")
	ErrAlreadyClosed       = errors.New("car: already closed")
	ErrUnsupportedOperation = errors.New("car: unsupported operation for this access mode")
	ErrConcurrentIteration = errors.New("car: a query is already in progress")
	ErrNotFound            = errors.New("car: block not found")
)

// UnsupportedVersion signals a header whose version is not 1.
type UnsupportedVersion struct {
	Version uint64
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("car: unsupported header version %d", e.Version)
}

// NewUnsupportedVersion constructs an UnsupportedVersion error.
func NewUnsupportedVersion(v uint64) error {
	return &UnsupportedVersion{Version: v}
}

// UnsupportedCidVersion signals a CID whose version the codec refuses to
// carry, currently only version 0.
type UnsupportedCidVersion struct {
	Version uint64
}

func (e *UnsupportedCidVersion) Error() string {
	return fmt.Sprintf("car: unsupported cid version %d", e.Version)
}

// NewUnsupportedCidVersion constructs an UnsupportedCidVersion error.
func NewUnsupportedCidVersion(v uint64) error {
	return &UnsupportedCidVersion{Version: v}
}

// Is allows errors.Is(err, &UnsupportedCidVersion{}) to match any instance,
// regardless of the carried version number.
func (e *UnsupportedCidVersion) Is(target error) bool {
	_, ok := target.(*UnsupportedCidVersion)
	return ok
}

// Is allows errors.Is(err, &UnsupportedVersion{}) to match any instance.
func (e *UnsupportedVersion) Is(target error) bool {
	_, ok := target.(*UnsupportedVersion)
	return ok
}
