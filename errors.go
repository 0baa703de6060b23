package dagjson

import (
	"errors"
	"fmt"
)

// ErrTrailingData is returned (wrapped in a *DecodeError) when a top-level
// value decodes cleanly but non-whitespace bytes remain behind it. It is a
// distinct sentinel so callers can separate "valid value, extra bytes" from
// "malformed value" with errors.Is.
var ErrTrailingData = errors.New("trailing data after top-level value")

// DecodeError wraps every failure surfaced by Decode, DecodeBytes and
// Unmarshal. The underlying error is preserved verbatim and reachable
// through errors.Is/errors.As, including syntax errors raised by the JSON
// tokenizer itself.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid DAG-JSON (%v)", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError wraps every failure surfaced by Encode, AppendEncode and
// Marshal, such as non-finite floats or links without a valid CID.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("unable to encode DAG-JSON (%v)", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// CodecError is the union of this codec's failure types. Both *DecodeError
// and *EncodeError satisfy it, so callers running both directions can match
// on one type with errors.As. Raw tokenizer errors are never returned bare;
// they arrive wrapped, reachable through Unwrap with their message intact.
type CodecError interface {
	error
	Unwrap() error
	codecError()
}

var (
	_ CodecError = (*DecodeError)(nil)
	_ CodecError = (*EncodeError)(nil)
)

func (e *DecodeError) codecError() {}
func (e *EncodeError) codecError() {}

func wrapDecodeError(err error) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Err: err}
}

func wrapEncodeError(err error) error {
	if err == nil {
		return nil
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		return err
	}
	return &EncodeError{Err: err}
}
