//go:generate mockgen -source=display.go -destination=mocks/mock_display.go -package=mocks

// Package sink defines where refreshed results go and the displays that
// consume them.
package sink

import (
	"context"
	"time"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/types"
)

// Display receives each published result. Implementations must not block
// for long; they are called from the refresh cycle.
type Display interface {
	SetTotals(ctx context.Context, demUnits, repUnits int)
	SetShares(ctx context.Context, demPct, repPct float64)
	ColorRegions(ctx context.Context, regions map[string]model.Category)
	SetLastUpdate(ctx context.Context, at time.Time)
}

// StatusDisplay is implemented by displays that show the outcome of the
// latest refresh attempt, e.g. a "source unreachable" indicator.
type StatusDisplay interface {
	SetStatus(ctx context.Context, status types.Status)
}

// ReadyNotifier is implemented by displays that start out unable to accept
// region colors. fn runs once when the display becomes ready, or immediately
// if it already is.
type ReadyNotifier interface {
	OnReady(fn func(ctx context.Context))
}
