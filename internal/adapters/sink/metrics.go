package sink

import (
	"context"
	"time"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/pkg/metrics"
)

// MetricsDisplay mirrors published results into Prometheus gauges.
type MetricsDisplay struct{}

// NewMetricsDisplay returns a display backed by the global metrics manager.
func NewMetricsDisplay() *MetricsDisplay { return &MetricsDisplay{} }

func (MetricsDisplay) SetTotals(_ context.Context, demUnits, repUnits int) {
	metrics.UpdateUnits(string(model.CategoryDem), demUnits)
	metrics.UpdateUnits(string(model.CategoryRep), repUnits)
}

func (MetricsDisplay) SetShares(_ context.Context, demPct, repPct float64) {
	metrics.UpdateSharePercent(string(model.CategoryDem), demPct)
	metrics.UpdateSharePercent(string(model.CategoryRep), repPct)
}

// ColorRegions is a no-op: the service records region counts from the parsed
// results, which include regions that have no map code.
func (MetricsDisplay) ColorRegions(context.Context, map[string]model.Category) {}

func (MetricsDisplay) SetLastUpdate(_ context.Context, at time.Time) {
	metrics.UpdateLastDisplayUpdate(at)
}
