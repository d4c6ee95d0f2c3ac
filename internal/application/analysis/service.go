package analysis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nattawatp/imagelens/internal/application"
	domain "github.com/nattawatp/imagelens/internal/domain/analysis"
)

// DefaultRemoteTimeout bounds a single verification call so a hung model
// request cannot pin the record in "pending" forever.
const DefaultRemoteTimeout = 60 * time.Second

// AnalyzeInput carries one image to analyze.
type AnalyzeInput struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Service orchestrates one analysis at a time: metadata extraction, the
// heuristic classifier, and an optional background remote verification.
// Exactly one record is current; starting a new analysis supersedes the
// previous record, and a late remote verdict for a superseded record is
// discarded by record-identity check rather than by aborting the call.
//
// Safe for concurrent use.
type Service struct {
	Metadata      domain.MetadataSource
	Verifier      domain.RemoteVerifier // nil when no credential is configured
	Clock         application.Clock
	Logger        *zap.Logger
	RemoteTimeout time.Duration

	// OnRemoteResult, when set, observes every completed remote call
	// (metrics hook). Called outside the record lock.
	OnRemoteResult func(err error)

	mu      sync.Mutex
	current *domain.AnalysisRecord
	wg      sync.WaitGroup

	// verdicts caches remote verdicts by image fingerprint so re-analyzing
	// the same picture does not spend another model call.
	verdicts map[string]domain.RemoteVerdict
}

func NewService(metadata domain.MetadataSource, verifier domain.RemoteVerifier, clock application.Clock, logger *zap.Logger) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Metadata:      metadata,
		Verifier:      verifier,
		Clock:         clock,
		Logger:        logger,
		RemoteTimeout: DefaultRemoteTimeout,
		verdicts:      make(map[string]domain.RemoteVerdict),
	}
}

// Analyze extracts metadata and dimensions, classifies, installs the new
// record as current, and returns the first snapshot. If a verifier is
// configured the remote leg continues in the background and attaches its
// verdict to the record later, provided the record is still current.
//
// Extraction failure is fatal: no record is produced and the previous one
// stays current.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (domain.AnalysisRecord, error) {
	mapping, dims, err := s.Metadata.Extract(in.Data)
	if err != nil {
		return domain.AnalysisRecord{}, err
	}

	rec := &domain.AnalysisRecord{
		ID:           domain.RecordID(uuid.New().String()),
		FileName:     in.FileName,
		FileSize:     int64(len(in.Data)),
		MIMEType:     in.MIMEType,
		Dimensions:   dims,
		AnalyzedAt:   s.Clock.Now(),
		Metadata:     mapping,
		Heuristic:    domain.Classify(mapping),
		RemoteStatus: domain.RemoteSkipped,
	}

	verify := s.Verifier != nil && s.Verifier.IsConfigured()
	key := ""
	if verify {
		key = fingerprint(in.Data)
	}

	s.mu.Lock()
	if verify {
		if v, ok := s.verdicts[key]; ok {
			verdict := v
			rec.Remote = &verdict
			rec.RemoteStatus = domain.RemoteDone
			verify = false
		} else {
			rec.RemoteStatus = domain.RemotePending
		}
	}
	s.current = rec
	snap := snapshot(rec)
	s.mu.Unlock()

	if verify {
		s.wg.Add(1)
		go s.verify(rec.ID, in, key)
	}
	return snap, nil
}

// Current returns a snapshot of the current record, if any.
func (s *Service) Current() (domain.AnalysisRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.AnalysisRecord{}, false
	}
	return snapshot(s.current), true
}

// Wait blocks until in-flight remote verifications finish. Test and
// shutdown hook.
func (s *Service) Wait() {
	s.wg.Wait()
}

// verify runs the remote leg on a detached, bounded context: the HTTP
// request that started the analysis has already been answered.
func (s *Service) verify(id domain.RecordID, in AnalyzeInput, key string) {
	defer s.wg.Done()

	timeout := s.RemoteTimeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	verdict, err := s.Verifier.Verify(ctx, in.Data, in.MIMEType)
	if s.OnRemoteResult != nil {
		s.OnRemoteResult(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.current.ID != id {
		s.Logger.Debug("discarding remote verdict for superseded analysis",
			zap.String("record_id", string(id)))
		return
	}
	if err != nil {
		// The heuristic verdict stays; only the remote slot reports failure.
		s.current.RemoteStatus = domain.RemoteFailed
		s.current.RemoteError = err.Error()
		s.Logger.Warn("remote verification failed",
			zap.String("record_id", string(id)), zap.Error(err))
		return
	}
	s.current.Remote = &verdict
	s.current.RemoteStatus = domain.RemoteDone
	if key != "" {
		s.verdicts[key] = verdict
	}
}

// fingerprint keys the verdict cache: perceptual average hash when the
// image decodes, sha256 of the bytes otherwise.
func fingerprint(data []byte) string {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		if h, err := goimagehash.AverageHash(img); err == nil {
			return h.ToString()
		}
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// snapshot copies a record so callers never share mutable state with the
// background verifier. Caller holds s.mu.
func snapshot(rec *domain.AnalysisRecord) domain.AnalysisRecord {
	out := *rec
	out.Metadata = make(domain.MetadataMapping, len(rec.Metadata))
	for k, v := range rec.Metadata {
		out.Metadata[k] = v
	}
	out.Heuristic.Indicators = append(make([]string, 0, len(rec.Heuristic.Indicators)), rec.Heuristic.Indicators...)
	if rec.Remote != nil {
		remote := *rec.Remote
		remote.VisualIndicators = append(make([]string, 0, len(rec.Remote.VisualIndicators)), rec.Remote.VisualIndicators...)
		out.Remote = &remote
	}
	return out
}
