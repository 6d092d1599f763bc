// Package sheetsim simulates a published results spreadsheet for local runs
// and checks a running tallymap against it.
package sheetsim

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/pkg/logger"
)

// Header is the first line of every rendered sheet.
const Header = "State,Dem,Rep,EV,Winner"

const (
	defaultStep      = 10 * time.Second
	defaultThreshold = 0.6
	maxCatchUpSteps  = 100

	minChunk   = 0.05
	chunkRange = 0.15
	leanNoise  = 0.08
)

type row struct {
	state
	dem    int
	rep    int
	winner string
}

func (r row) reported() int { return r.dem + r.rep }

// Sim holds the evolving counts. Counts advance once per step of elapsed
// time, so every request inside one window sees the same sheet.
type Sim struct {
	mu sync.Mutex

	clock     clockwork.Clock
	rng       *rand.Rand
	step      time.Duration
	threshold float64
	quoted    bool
	failEvery int
	labels    model.Labels
	log       logger.Logger

	rows     []row
	last     time.Time
	steps    int
	requests int
	revision string
}

// Option configures a Sim.
type Option func(*Sim)

// WithSeed makes the vote stream reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sim) { s.rng = rand.New(rand.NewPCG(seed, seed^0x5eed)) }
}

// WithClock sets the clock used to decide when counts advance.
func WithClock(c clockwork.Clock) Option {
	return func(s *Sim) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithStep sets how much time passes between count updates.
func WithStep(d time.Duration) Option {
	return func(s *Sim) {
		if d > 0 {
			s.step = d
		}
	}
}

// WithThreshold sets the reported fraction at which a state is called.
func WithThreshold(f float64) Option {
	return func(s *Sim) {
		if f > 0 && f <= 1 {
			s.threshold = f
		}
	}
}

// WithQuoted renders ballot counts as quoted, thousands-separated numbers.
func WithQuoted(q bool) Option {
	return func(s *Sim) { s.quoted = q }
}

// WithFailEvery answers every nth sheet request with a 500. Zero disables it.
func WithFailEvery(n int) Option {
	return func(s *Sim) {
		if n >= 0 {
			s.failEvery = n
		}
	}
}

// WithLabels sets the winner labels written to the sheet.
func WithLabels(l model.Labels) Option {
	return func(s *Sim) {
		if l.Dem != "" && l.Rep != "" {
			s.labels = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Sim with nothing reported yet.
func New(opts ...Option) *Sim {
	s := &Sim{
		clock:     clockwork.NewRealClock(),
		step:      defaultStep,
		threshold: defaultThreshold,
		labels:    model.Labels{Dem: "Harris", Rep: "Trump"},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.rows = make([]row, len(electoralTable))
	for i, st := range electoralTable {
		s.rows[i] = row{state: st}
	}
	s.last = s.clock.Now()
	s.revision = uuid.NewString()
	return s
}

// Labels returns the winner labels written to the sheet.
func (s *Sim) Labels() model.Labels { return s.labels }

// Advance reports one more batch of ballots in every state still counting.
func (s *Sim) Advance(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanceLocked(ctx)
}

func (s *Sim) advanceLocked(ctx context.Context) {
	called := 0
	for i := range s.rows {
		r := &s.rows[i]
		remaining := r.turnout - r.reported()
		if remaining > 0 {
			chunk := int(float64(r.turnout) * (minChunk + s.rng.Float64()*chunkRange))
			chunk = min(max(chunk, 1), remaining)
			share := math.Min(1, math.Max(0, r.lean+(s.rng.Float64()*2-1)*leanNoise))
			dem := int(math.Round(float64(chunk) * share))
			r.dem += dem
			r.rep += chunk - dem
		}
		if r.winner == "" && float64(r.reported()) >= s.threshold*float64(r.turnout) {
			switch {
			case r.dem > r.rep:
				r.winner = s.labels.Dem
			case r.rep > r.dem:
				r.winner = s.labels.Rep
			}
			if r.winner != "" {
				called++
			}
		}
	}
	s.steps++
	s.revision = uuid.NewString()
	s.log.Debug(ctx, "sheet advanced",
		logger.Int("step", s.steps),
		logger.Int("called", called),
		logger.String("revision", s.revision),
	)
}

// catchUp applies one advance per full step elapsed since the last one.
func (s *Sim) catchUp(ctx context.Context) {
	n := int(s.clock.Since(s.last) / s.step)
	if n <= 0 {
		return
	}
	s.last = s.last.Add(time.Duration(n) * s.step)
	for i := 0; i < min(n, maxCatchUpSteps); i++ {
		s.advanceLocked(ctx)
	}
}

// Render returns the current sheet as CSV plus its revision.
func (s *Sim) Render(ctx context.Context) (body, revision string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catchUp(ctx)

	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for _, r := range s.rows {
		b.WriteString(r.name)
		b.WriteByte(',')
		b.WriteString(s.count(r.dem))
		b.WriteByte(',')
		b.WriteString(s.count(r.rep))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(r.units))
		b.WriteByte(',')
		b.WriteString(r.winner)
		b.WriteByte('\n')
	}
	return b.String(), s.revision
}

func (s *Sim) count(n int) string {
	if s.quoted {
		return `"` + humanize.Comma(int64(n)) + `"`
	}
	return strconv.Itoa(n)
}

// shouldFail counts a request and reports whether it is an injected failure.
func (s *Sim) shouldFail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	return s.failEvery > 0 && s.requests%s.failEvery == 0
}

// Steps returns how many times counts have advanced.
func (s *Sim) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}
