package sink

import (
	"context"
	"sync"
	"time"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/pkg/logger"
)

// State is the lifecycle of a gated display.
type State int

const (
	NotReady State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "not_ready"
}

// Gate wraps a display whose map is not rendered yet. ColorRegions calls
// made before MarkReady are dropped; everything else passes through.
// The transition happens once and cannot be undone.
type Gate struct {
	next Display
	log  logger.Logger

	mu        sync.Mutex
	state     State
	callbacks []func(context.Context)
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithGateLogger sets the logger used for dropped calls.
func WithGateLogger(l logger.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGate returns a gate in the NotReady state.
func NewGate(next Display, opts ...GateOption) *Gate {
	g := &Gate{next: next, log: logger.Nop(), state: NotReady}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports the current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// MarkReady moves the gate to Ready and runs the registered callbacks.
// It reports whether this call made the transition.
func (g *Gate) MarkReady(ctx context.Context) bool {
	g.mu.Lock()
	if g.state == Ready {
		g.mu.Unlock()
		return false
	}
	g.state = Ready
	callbacks := g.callbacks
	g.callbacks = nil
	g.mu.Unlock()

	g.log.Info(ctx, "display ready")
	for _, fn := range callbacks {
		fn(ctx)
	}
	return true
}

// OnReady implements ReadyNotifier.
func (g *Gate) OnReady(fn func(ctx context.Context)) {
	g.mu.Lock()
	if g.state != Ready {
		g.callbacks = append(g.callbacks, fn)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()
	fn(context.Background())
}

func (g *Gate) SetTotals(ctx context.Context, demUnits, repUnits int) {
	g.next.SetTotals(ctx, demUnits, repUnits)
}

func (g *Gate) SetShares(ctx context.Context, demPct, repPct float64) {
	g.next.SetShares(ctx, demPct, repPct)
}

func (g *Gate) ColorRegions(ctx context.Context, regions map[string]model.Category) {
	if g.State() != Ready {
		g.log.Debug(ctx, "region colors dropped, display not ready", logger.Int("regions", len(regions)))
		return
	}
	g.next.ColorRegions(ctx, regions)
}

func (g *Gate) SetLastUpdate(ctx context.Context, at time.Time) {
	g.next.SetLastUpdate(ctx, at)
}

// SetStatus forwards to the wrapped display when it shows status.
func (g *Gate) SetStatus(ctx context.Context, status types.Status) {
	if sd, ok := g.next.(StatusDisplay); ok {
		sd.SetStatus(ctx, status)
	}
}
