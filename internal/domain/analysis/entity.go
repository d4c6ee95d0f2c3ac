package analysis

import (
	"time"
)

// RecordID identifies one analysis. A new upload gets a fresh ID; in-flight
// remote verifications carry the ID of the record they belong to.
type RecordID string

// MetadataTag is one named field extracted from an image's embedded data.
// Description is the human-readable rendering; Value keeps whatever the
// decoder produced.
type MetadataTag struct {
	Description string `json:"description"`
	Value       any    `json:"value,omitempty"`
}

// MetadataMapping maps exact tag names (case-sensitive, e.g. "Software",
// "parameters", "sd-metadata") to their extracted values. A missing key
// means "no signal".
type MetadataMapping map[string]MetadataTag

// Present reports whether the named tag exists and carries a value.
func (m MetadataMapping) Present(name string) bool {
	tag, ok := m[name]
	if !ok {
		return false
	}
	if tag.Description != "" {
		return true
	}
	switch v := tag.Value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	default:
		return true
	}
}

// HeuristicVerdict is the result of the local keyword classifier.
// IsAI is derived: true iff Indicators is non-empty.
type HeuristicVerdict struct {
	IsAI       bool     `json:"is_ai"`
	Indicators []string `json:"indicators"`
}

// RemoteVerdict is the parsed second opinion from the remote vision model.
// Confidence is whatever the model supplied, clamped to [0,100]; it is not
// validated against IsAIGenerated.
type RemoteVerdict struct {
	IsAIGenerated    bool     `json:"isAIGenerated"`
	Confidence       int      `json:"confidence"`
	Reasoning        string   `json:"reasoning"`
	VisualIndicators []string `json:"visualIndicators"`
}

// Dimensions are the probed pixel dimensions of the image.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RemoteStatus tracks the remote-verification leg of an analysis.
type RemoteStatus string

const (
	RemoteSkipped RemoteStatus = "skipped"
	RemotePending RemoteStatus = "pending"
	RemoteDone    RemoteStatus = "done"
	RemoteFailed  RemoteStatus = "failed"
)

// AnalysisRecord aggregates everything known about the current image.
// The heuristic verdict is present from creation; Remote is attached later
// if and when verification resolves. Records are superseded, never mutated
// by a later upload: a new analysis replaces the whole record.
type AnalysisRecord struct {
	ID           RecordID         `json:"id"`
	FileName     string           `json:"file_name"`
	FileSize     int64            `json:"file_size"`
	MIMEType     string           `json:"mime_type"`
	Dimensions   Dimensions       `json:"dimensions"`
	AnalyzedAt   time.Time        `json:"analyzed_at"`
	Metadata     MetadataMapping  `json:"metadata"`
	Heuristic    HeuristicVerdict `json:"heuristic"`
	Remote       *RemoteVerdict   `json:"remote,omitempty"`
	RemoteStatus RemoteStatus     `json:"remote_status"`
	RemoteError  string           `json:"remote_error,omitempty"`
}
