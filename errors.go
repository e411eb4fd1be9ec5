package fmindex

import "github.com/pkg/errors"

var (
	ErrTextTooLong    = errors.New("fmindex: text is too long to index")
	ErrSentinelInText = errors.New("fmindex: text contains the sentinel symbol")
	ErrMissingStep    = errors.New("fmindex: step not supplied and no prompter configured")
	ErrInvalidStep    = errors.New("fmindex: step must be a positive integer")

	// ErrNotEncoded is returned by read operations on an Index that has not been encoded.
	ErrNotEncoded = errors.New("fmindex: index used before encode")

	// ErrCorrupt reports a BWT that does not belong to the encoded text.
	// It is never returned for a pattern that is simply absent.
	ErrCorrupt = errors.New("fmindex: bwt is inconsistent with the encoded text")

	ErrNoLCP      = errors.New("fmindex: index was built without an LCP array")
	ErrOutOfRange = errors.New("fmindex: offset out of range")
)
