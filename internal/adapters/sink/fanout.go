package sink

import (
	"context"
	"time"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/types"
)

// Fanout forwards every call to each display in order.
type Fanout []Display

func (f Fanout) SetTotals(ctx context.Context, demUnits, repUnits int) {
	for _, d := range f {
		d.SetTotals(ctx, demUnits, repUnits)
	}
}

func (f Fanout) SetShares(ctx context.Context, demPct, repPct float64) {
	for _, d := range f {
		d.SetShares(ctx, demPct, repPct)
	}
}

// ColorRegions hands each display its own copy of regions.
func (f Fanout) ColorRegions(ctx context.Context, regions map[string]model.Category) {
	for _, d := range f {
		cp := make(map[string]model.Category, len(regions))
		for k, v := range regions {
			cp[k] = v
		}
		d.ColorRegions(ctx, cp)
	}
}

func (f Fanout) SetLastUpdate(ctx context.Context, at time.Time) {
	for _, d := range f {
		d.SetLastUpdate(ctx, at)
	}
}

// SetStatus forwards to the displays that show status.
func (f Fanout) SetStatus(ctx context.Context, status types.Status) {
	for _, d := range f {
		if sd, ok := d.(StatusDisplay); ok {
			sd.SetStatus(ctx, status)
		}
	}
}

// OnReady registers fn with every child that has a readiness lifecycle.
func (f Fanout) OnReady(fn func(ctx context.Context)) {
	for _, d := range f {
		if rn, ok := d.(ReadyNotifier); ok {
			rn.OnReady(fn)
		}
	}
}
