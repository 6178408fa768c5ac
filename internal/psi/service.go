package psi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// HealthRecorder receives the outcome of each upstream fetch.
type HealthRecorder interface {
	RecordSuccess(name string)
	RecordFailure(name string, err error)
}

// FetchRecorder receives fetch timings.
type FetchRecorder interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
	RecordSuperseded(provider string)
}

// ServiceConfig holds configuration for the PSI service.
type ServiceConfig struct {
	// Provider fetches snapshots.
	Provider Provider

	// ProviderName labels health records, metrics and logs.
	ProviderName string

	// Logger for service operations.
	Logger zerolog.Logger

	// Health and Metrics are optional.
	Health  HealthRecorder
	Metrics FetchRecorder

	// Now returns the current time (default: time.Now).
	Now func() time.Time
}

// View is everything the display layer needs from one successful fetch.
type View struct {
	// RequestedAt is the date_time the snapshot was requested for.
	RequestedAt string

	Snapshot    *Snapshot
	Status      Status
	Annotations []Annotation
	National    RegionSummary
}

// NewView prepares s for display.
func NewView(requestedAt string, s *Snapshot) *View {
	return &View{
		RequestedAt: requestedAt,
		Snapshot:    s,
		Status:      NewStatus(s),
		Annotations: BuildAnnotations(s),
		National:    NationalSummary(s),
	}
}

// Result is the outcome of an asynchronous load.
type Result struct {
	View *View
	Err  error
}

// Service fetches PSI snapshots for the current time and holds the last
// successful one for on-demand formatting.
//
// Load and LoadAsync serve a single display: starting one cancels the load in
// flight. Fetch serves independent callers and cancels nothing. A result only
// replaces the held view if no later-started fetch has already stored one.
type Service struct {
	provider     Provider
	providerName string
	logger       zerolog.Logger
	health       HealthRecorder
	metrics      FetchRecorder
	now          func() time.Time

	mu       sync.Mutex
	seq      uint64
	loadSeq  uint64
	inFlight context.CancelFunc
	view     *View
	viewSeq  uint64
}

// NewService creates a new PSI service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		provider:     cfg.Provider,
		providerName: cfg.ProviderName,
		logger:       cfg.Logger,
		health:       cfg.Health,
		metrics:      cfg.Metrics,
		now:          now,
	}
}

type load struct {
	ctx       context.Context
	cancel    context.CancelFunc
	seq       uint64
	timestamp string
	exclusive bool
}

// Load fetches the snapshot for the current Singapore time. It is also the
// retry operation: each call computes a fresh timestamp.
//
// Errors wrap ErrFetchFailed, or are ErrSuperseded when a newer load started
// before this one finished.
func (s *Service) Load(ctx context.Context) (*View, error) {
	return s.run(s.begin(ctx, true))
}

// Fetch fetches the snapshot for the current Singapore time on behalf of one
// caller. It is not canceled by other loads, and its view is returned even
// when a later fetch already replaced the held one.
//
// Errors wrap ErrFetchFailed.
func (s *Service) Fetch(ctx context.Context) (*View, error) {
	return s.run(s.begin(ctx, false))
}

// LoadAsync starts a load and returns a channel that receives its result and
// is then closed. Loads are ordered by when LoadAsync was called.
func (s *Service) LoadAsync(ctx context.Context) <-chan Result {
	l := s.begin(ctx, true)
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		view, err := s.run(l)
		results <- Result{View: view, Err: err}
	}()
	return results
}

func (s *Service) begin(ctx context.Context, exclusive bool) load {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	if exclusive {
		if s.inFlight != nil {
			s.inFlight()
		}
		s.inFlight = cancel
		s.loadSeq = s.seq
	}

	return load{
		ctx:       ctx,
		cancel:    cancel,
		seq:       s.seq,
		timestamp: SingaporeTimestamp(s.now()),
		exclusive: exclusive,
	}
}

func (s *Service) run(l load) (*View, error) {
	defer l.cancel()

	start := time.Now()
	snapshot, err := s.provider.FetchSnapshot(l.ctx, l.timestamp)
	duration := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if l.exclusive {
		if l.seq != s.loadSeq {
			s.recordSuperseded()
			s.logger.Debug().
				Str("date_time", l.timestamp).
				Uint64("seq", l.seq).
				Msg("discarding superseded PSI fetch")
			return nil, ErrSuperseded
		}
		s.inFlight = nil
	}

	s.recordRequest(duration, err)

	if err != nil {
		if !errors.Is(err, ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		// The caller went away; the upstream is not at fault.
		if errors.Is(err, context.Canceled) {
			s.logger.Debug().
				Str("date_time", l.timestamp).
				Msg("PSI fetch canceled")
			return nil, err
		}
		s.logger.Error().
			Err(err).
			Str("date_time", l.timestamp).
			Msg("failed to fetch PSI snapshot")
		if s.health != nil {
			s.health.RecordFailure(s.providerName, err)
		}
		return nil, err
	}

	view := NewView(l.timestamp, snapshot)
	if l.seq > s.viewSeq {
		s.view = view
		s.viewSeq = l.seq
	}
	if s.health != nil {
		s.health.RecordSuccess(s.providerName)
	}

	s.logger.Info().
		Str("date_time", l.timestamp).
		Str("status", view.Status.Value).
		Int("regions", len(snapshot.Regions)).
		Int("items", len(snapshot.Items)).
		Dur("duration", duration).
		Msg("PSI snapshot loaded")

	return view, nil
}

func (s *Service) recordRequest(d time.Duration, err error) {
	if s.metrics != nil {
		s.metrics.RecordRequest(s.providerName, "fetch_snapshot", d, err)
	}
}

func (s *Service) recordSuperseded() {
	if s.metrics != nil {
		s.metrics.RecordSuperseded(s.providerName)
	}
}

// Last returns the most recently loaded view, or nil before the first
// successful load.
func (s *Service) Last() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Region formats direction d from the last loaded snapshot.
func (s *Service) Region(d Direction) (RegionSummary, error) {
	view := s.Last()
	if view == nil {
		return RegionSummary{}, ErrNoSnapshot
	}
	reading, _ := view.Snapshot.FirstReading()
	return FormatRegion(reading.Readings, d), nil
}

// National returns the national summary from the last loaded snapshot.
func (s *Service) National() (RegionSummary, error) {
	return s.Region(DirectionNational)
}
