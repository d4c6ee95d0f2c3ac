package analysis

import "errors"

// ErrDecode indicates the image could not be decoded for metadata or
// dimensions. Fatal to the current analysis; no record is produced.
var ErrDecode = errors.New("image decode failed")

// ErrNotConfigured indicates Verify was called without a usable credential.
var ErrNotConfigured = errors.New("remote verifier not configured")

// ErrMalformedResponse indicates the model reply was not parseable JSON
// even after fence stripping.
var ErrMalformedResponse = errors.New("malformed verifier response")
