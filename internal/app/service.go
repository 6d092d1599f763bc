// Package service runs the refresh pipeline: it polls the sheet, rebuilds the
// snapshot and publishes it to the display. It also implements the read side
// required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okian/tallymap/internal/adapters/sink"
	"github.com/okian/tallymap/internal/adapters/source"
	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/tally"
	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/pkg/logger"
	"github.com/okian/tallymap/pkg/metrics"
)

const (
	defaultRefreshInterval = 30 * time.Second
	undecidedWinner        = "TBD"

	triggerStart  = "start"
	triggerTick   = "tick"
	triggerManual = "manual"
)

// Service owns the snapshot and the refresh timer.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	fetcher source.Fetcher
	display sink.Display
	clock   clockwork.Clock

	// Configuration
	sourceURL string
	interval  time.Duration
	labels    model.Labels
	codes     map[string]string

	// State
	snap     model.Snapshot
	inFlight atomic.Bool
	skipped  atomic.Int64
	started  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// readyOnce keeps the recolor callback from being registered again on
	// restart.
	readyOnce sync.Once

	// pubMu keeps publishes in snapshot order.
	pubMu sync.Mutex

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets how the sheet body is retrieved.
func WithFetcher(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithDisplay sets where snapshots are published.
func WithDisplay(d sink.Display) Option {
	return func(s *Service) {
		if d != nil {
			s.display = d
		}
	}
}

// WithClock sets the clock driving the refresh timer.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSourceURL sets the published-sheet CSV URL.
func WithSourceURL(url string) Option {
	return func(s *Service) {
		s.sourceURL = url
	}
}

// WithRefreshInterval sets the poll period.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLabels sets the recognized winner labels.
func WithLabels(l model.Labels) Option {
	return func(s *Service) {
		s.labels = l
	}
}

// WithRegionCodes sets the region name to map key table.
func WithRegionCodes(codes map[string]string) Option {
	return func(s *Service) {
		s.codes = codes
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithFetcher it uses a plain HTTP fetcher.
func New(opts ...Option) *Service {
	s := &Service{
		fetcher:  source.NewHTTPFetcher(),
		display:  sink.Fanout{},
		clock:    clockwork.NewRealClock(),
		interval: defaultRefreshInterval,
		labels:   model.Labels{Dem: "Harris", Rep: "Trump"},
		snap:     model.Snapshot{Regions: model.Regions{}},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs one refresh cycle immediately and then one per interval until
// Stop is called or ctx ends.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.sourceURL == "" {
		s.mu.Unlock()
		return ErrNoSource
	}
	if s.fetcher == nil {
		s.mu.Unlock()
		return ErrNoFetcher
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.started = true
	s.mu.Unlock()

	// Registered outside the lock: an already-ready display runs the
	// callback immediately.
	if rn, ok := s.display.(sink.ReadyNotifier); ok {
		s.readyOnce.Do(func() { rn.OnReady(s.recolor) })
	}

	// Create the ticker before the goroutine so a fake clock sees it as soon
	// as Start returns.
	ticker := s.clock.NewTicker(s.interval)
	s.wg.Add(1)
	go s.loop(runCtx, ticker)

	s.logger.Info(ctx, "refresh service started",
		logger.String("source", s.sourceURL),
		logger.Duration("interval", s.interval),
	)
	return nil
}

// Stop halts the timer and waits for an in-flight cycle to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info(context.Background(), "refresh service stopped")
}

func (s *Service) loop(ctx context.Context, ticker clockwork.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	s.trigger(ctx, triggerStart)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.trigger(ctx, triggerTick)
		}
	}
}

// trigger starts a cycle in the background unless one is in flight, in which
// case the trigger is skipped.
func (s *Service) trigger(ctx context.Context, reason string) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.skip(ctx, reason)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		_ = s.cycle(ctx, reason)
	}()
}

func (s *Service) skip(ctx context.Context, reason string) {
	n := s.skipped.Add(1)
	metrics.RecordTickSkipped()
	s.logger.Warn(ctx, "refresh skipped, previous cycle still running",
		logger.String("trigger", reason),
		logger.Int64("skipped_total", n),
	)
}

// Refresh runs one cycle now and returns its error. It never waits for a
// running cycle; it returns ErrRefreshInFlight instead. Stop waits for a
// manual cycle the same way it waits for a timed one.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.skip(ctx, triggerManual)
		return ErrRefreshInFlight
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer s.inFlight.Store(false)
	return s.cycle(ctx, triggerManual)
}

// cycle is fetch -> parse -> aggregate -> swap -> publish.
func (s *Service) cycle(ctx context.Context, reason string) error {
	log := s.logger.With(
		logger.String("cycle", uuid.NewString()),
		logger.String("trigger", reason),
	)

	start := s.clock.Now()
	body, err := s.fetcher.Fetch(ctx, s.sourceURL)
	metrics.RecordFetchLatency(s.clock.Since(start))
	if err != nil {
		if ctx.Err() != nil {
			log.Debug(ctx, "refresh abandoned", logger.Error(err))
			return err
		}
		s.fail(ctx, log, err)
		return err
	}

	res := tally.Parse(body)
	metrics.RecordParsedRows(res.Accepted, res.SkippedShort, res.SkippedInvalid)
	totals := tally.Aggregate(res.Regions, s.labels)
	for c, n := range tally.CountCategories(res.Regions, s.labels) {
		metrics.UpdateRegionCount(string(c), n)
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.snap = model.Snapshot{
		Regions:   res.Regions,
		Totals:    totals,
		Revision:  uuid.NewString(),
		UpdatedAt: s.clock.Now(),
		Cycles:    s.snap.Cycles + 1,
		Failures:  s.snap.Failures,
	}
	snap := s.snap
	s.mu.Unlock()

	metrics.RecordRefreshCycle("ok")
	metrics.UpdateRawVotes(string(model.CategoryDem), totals.DemRaw)
	metrics.UpdateRawVotes(string(model.CategoryRep), totals.RepRaw)

	log.Info(ctx, "refresh complete",
		logger.String("revision", snap.Revision),
		logger.Int("regions", len(res.Regions)),
		logger.Int("rows", res.Rows),
		logger.Int("skipped_short", res.SkippedShort),
		logger.Int("skipped_invalid", res.SkippedInvalid),
		logger.Int("dem_units", totals.DemUnits),
		logger.Int("rep_units", totals.RepUnits),
		logger.Duration("took", s.clock.Since(start)),
	)

	s.publish(ctx, snap)
	return nil
}

// fail records a failed cycle. Regions and totals are kept as they were.
func (s *Service) fail(ctx context.Context, log logger.Logger, err error) {
	kind := "unknown"
	fields := []logger.Field{logger.Error(err)}

	var fe *source.FetchError
	if errors.As(err, &fe) {
		kind = string(fe.Kind)
		fields = append(fields, logger.String("kind", kind))
		if fe.Kind == source.KindHTTPStatus {
			fields = append(fields, logger.Int("status_code", fe.StatusCode))
		}
	}
	metrics.RecordFetchError(kind)
	metrics.RecordRefreshCycle("error")
	log.Error(ctx, "refresh failed, keeping previous results", fields...)

	s.mu.Lock()
	s.snap.LastError = err.Error()
	s.snap.LastErrorAt = s.clock.Now()
	s.snap.Cycles++
	s.snap.Failures++
	status := statusOf(s.snap)
	s.mu.Unlock()

	s.pushStatus(ctx, status)
}

// publish sends a snapshot to the display. Callers hold pubMu.
func (s *Service) publish(ctx context.Context, snap model.Snapshot) {
	t := snap.Totals
	s.display.SetTotals(ctx, t.DemUnits, t.RepUnits)
	s.display.SetShares(ctx, t.DemSharePct, t.RepSharePct)
	s.display.ColorRegions(ctx, tally.Categorize(snap.Regions, s.labels, s.codes))
	s.display.SetLastUpdate(ctx, snap.UpdatedAt)
	s.pushStatus(ctx, statusOf(snap))
}

func (s *Service) pushStatus(ctx context.Context, status types.Status) {
	if sd, ok := s.display.(sink.StatusDisplay); ok {
		sd.SetStatus(ctx, status)
	}
}

// recolor re-sends region colors once the display can take them. Nothing is
// sent before the first successful cycle.
func (s *Service) recolor(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	snap := s.Snapshot()
	if snap.UpdatedAt.IsZero() {
		s.logger.Debug(ctx, "display ready before first refresh, nothing to color")
		return
	}
	s.logger.Debug(ctx, "display ready, coloring regions", logger.String("revision", snap.Revision))
	s.display.ColorRegions(ctx, tally.Categorize(snap.Regions, s.labels, s.codes))
}

// Snapshot returns the current state. The Regions map must not be modified.
func (s *Service) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Labels returns the recognized winner labels.
func (s *Service) Labels() model.Labels {
	return s.labels
}

// Region returns the detail view of one region, looked up by sheet name or
// by map key.
func (s *Service) Region(name string) (types.Region, error) {
	snap := s.Snapshot()

	if r, ok := snap.Regions[name]; ok {
		return s.regionView(name, r), nil
	}
	for regionName, code := range s.codes {
		if code != name {
			continue
		}
		if r, ok := snap.Regions[regionName]; ok {
			return s.regionView(regionName, r), nil
		}
	}
	return types.Region{}, fmt.Errorf("%w: %s", ErrRegionNotFound, name)
}

func (s *Service) regionView(name string, r model.RegionTally) types.Region {
	winner := r.Winner
	if winner == "" {
		winner = undecidedWinner
	}
	return types.Region{
		Name:     name,
		Code:     s.codes[name],
		Dem:      r.Dem,
		Rep:      r.Rep,
		Units:    r.Units,
		Winner:   r.Winner,
		Category: string(s.labels.Classify(r.Winner)),
		Popup: fmt.Sprintf("%s: %s\n%s: %s | %s: %s",
			name, winner,
			s.labels.Dem, humanize.Comma(int64(r.Dem)),
			s.labels.Rep, humanize.Comma(int64(r.Rep)),
		),
	}
}

// Results returns the full snapshot in API form, regions sorted by name.
func (s *Service) Results() types.Results {
	snap := s.Snapshot()

	names := make([]string, 0, len(snap.Regions))
	for name := range snap.Regions {
		names = append(names, name)
	}
	sort.Strings(names)

	regions := make([]types.Region, 0, len(names))
	for _, name := range names {
		regions = append(regions, s.regionView(name, snap.Regions[name]))
	}

	out := types.Results{
		Revision: snap.Revision,
		DemLabel: s.labels.Dem,
		RepLabel: s.labels.Rep,
		Totals: types.Totals{
			DemUnits:    snap.Totals.DemUnits,
			RepUnits:    snap.Totals.RepUnits,
			DemRaw:      snap.Totals.DemRaw,
			RepRaw:      snap.Totals.RepRaw,
			DemSharePct: snap.Totals.DemSharePct,
			RepSharePct: snap.Totals.RepSharePct,
		},
		Regions: regions,
		Status:  statusOf(snap),
	}
	if !snap.UpdatedAt.IsZero() {
		at := snap.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func statusOf(snap model.Snapshot) types.Status {
	st := types.Status{
		OK:       snap.LastError == "",
		Cycles:   snap.Cycles,
		Failures: snap.Failures,
	}
	if !st.OK {
		st.LastError = snap.LastError
		at := snap.LastErrorAt
		st.LastErrorAt = &at
	}
	return st
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"source":     s.sourceURL,
		"intervalMs": s.interval.Milliseconds(),
		"regions":    len(s.snap.Regions),
		"cycles":     s.snap.Cycles,
		"failures":   s.snap.Failures,
		"skipped":    s.skipped.Load(),
		"inFlight":   s.inFlight.Load(),
		"revision":   s.snap.Revision,
		"lastError":  s.snap.LastError,
		"demUnits":   s.snap.Totals.DemUnits,
		"repUnits":   s.snap.Totals.RepUnits,
	}
	if !s.snap.UpdatedAt.IsZero() {
		stats["updatedAt"] = s.snap.UpdatedAt
		stats["updatedAgo"] = humanize.RelTime(s.snap.UpdatedAt, s.clock.Now(), "ago", "from now")
	}
	return stats
}
