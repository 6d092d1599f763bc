package sink

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/types"
)

// Party colors shared with the dashboard map.
const (
	colorDem       = lipgloss.Color("#2563eb")
	colorRep       = lipgloss.Color("#dc2626")
	colorUndecided = lipgloss.Color("#6b7280")
)

// ConsoleDisplay prints a one-line styled summary each time results are
// published. Values are buffered until SetLastUpdate closes the cycle.
type ConsoleDisplay struct {
	w      io.Writer
	labels model.Labels

	demStyle, repStyle, dimStyle, errStyle lipgloss.Style

	mu       sync.Mutex
	demUnits int
	repUnits int
	demPct   float64
	repPct   float64
	counts   map[model.Category]int
	status   types.Status
}

// NewConsoleDisplay writes summaries to w. Color output follows what w
// supports; plain writers get plain text.
func NewConsoleDisplay(w io.Writer, labels model.Labels) *ConsoleDisplay {
	r := lipgloss.NewRenderer(w)
	return &ConsoleDisplay{
		w:        w,
		labels:   labels,
		demStyle: r.NewStyle().Bold(true).Foreground(colorDem),
		repStyle: r.NewStyle().Bold(true).Foreground(colorRep),
		dimStyle: r.NewStyle().Foreground(colorUndecided),
		errStyle: r.NewStyle().Foreground(colorRep).Italic(true),
		counts:   map[model.Category]int{},
		status:   types.Status{OK: true},
	}
}

func (c *ConsoleDisplay) SetTotals(_ context.Context, demUnits, repUnits int) {
	c.mu.Lock()
	c.demUnits, c.repUnits = demUnits, repUnits
	c.mu.Unlock()
}

func (c *ConsoleDisplay) SetShares(_ context.Context, demPct, repPct float64) {
	c.mu.Lock()
	c.demPct, c.repPct = demPct, repPct
	c.mu.Unlock()
}

func (c *ConsoleDisplay) ColorRegions(_ context.Context, regions map[string]model.Category) {
	counts := make(map[model.Category]int, 3)
	for _, cat := range regions {
		counts[cat]++
	}
	c.mu.Lock()
	c.counts = counts
	c.mu.Unlock()
}

func (c *ConsoleDisplay) SetStatus(_ context.Context, status types.Status) {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
}

func (c *ConsoleDisplay) SetLastUpdate(_ context.Context, at time.Time) {
	c.mu.Lock()
	line := c.render(at)
	c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, line)
}

func (c *ConsoleDisplay) render(at time.Time) string {
	parts := []string{
		c.demStyle.Render(fmt.Sprintf("%s %s", c.labels.Dem, humanize.Comma(int64(c.demUnits)))),
		c.repStyle.Render(fmt.Sprintf("%s %s", c.labels.Rep, humanize.Comma(int64(c.repUnits)))),
		fmt.Sprintf("share %s%% / %s%%",
			strconv.FormatFloat(c.demPct, 'f', 1, 64), strconv.FormatFloat(c.repPct, 'f', 1, 64)),
		c.dimStyle.Render(fmt.Sprintf("regions %d/%d/%d",
			c.counts[model.CategoryDem], c.counts[model.CategoryRep], c.counts[model.CategoryUndecided])),
		c.dimStyle.Render("updated " + at.Format(time.TimeOnly)),
	}
	if !c.status.OK && c.status.LastError != "" {
		parts = append(parts, c.errStyle.Render("last refresh failed: "+c.status.LastError))
	}
	return strings.Join(parts, "  ")
}
