package analysis

import "context"

// MetadataSource extracts the tag mapping and pixel dimensions from raw
// image bytes. Both are required: an error here is fatal to the analysis.
type MetadataSource interface {
	Extract(data []byte) (MetadataMapping, Dimensions, error)
}

// RemoteVerifier asks a hosted vision model for a second opinion.
// Callers must gate on IsConfigured; Verify on an unconfigured verifier
// returns ErrNotConfigured.
type RemoteVerifier interface {
	IsConfigured() bool
	Verify(ctx context.Context, image []byte, mimeType string) (RemoteVerdict, error)
}
