// Package tui renders the dashboard document in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/mtdash/internal/chart"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	seriesColor = []lipgloss.Color{"205", "42", "214", "39"}
)

// TextEngine is a chart engine that draws charts as styled text.
type TextEngine struct {
	// BarWidth is the length of the longest bar in cells.
	BarWidth int

	mu     sync.Mutex
	charts map[string]*textHandle
}

type textHandle struct {
	engine *TextEngine
	canvas string
	text   string
}

// NewTextEngine returns an engine with no charts.
func NewTextEngine() *TextEngine {
	return &TextEngine{BarWidth: 40, charts: make(map[string]*textHandle)}
}

// Render implements chart.Engine.
func (e *TextEngine) Render(canvas string, spec chart.Spec) (chart.Handle, error) {
	var text string
	switch spec.Kind {
	case chart.KindLine:
		text = e.drawLine(spec)
	case chart.KindBar:
		text = e.drawBars(spec)
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.charts == nil {
		e.charts = make(map[string]*textHandle)
	}
	if _, busy := e.charts[canvas]; busy {
		return nil, fmt.Errorf("%w: %s", chart.ErrCanvasInUse, canvas)
	}
	h := &textHandle{engine: e, canvas: canvas, text: text}
	e.charts[canvas] = h
	return h, nil
}

func (h *textHandle) Destroy() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if current, ok := h.engine.charts[h.canvas]; ok && current == h {
		delete(h.engine.charts, h.canvas)
	}
	return nil
}

// Chart returns the drawing on canvas, or "" when there is none.
func (e *TextEngine) Chart(canvas string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.charts[canvas]; ok {
		return h.text
	}
	return ""
}

func (e *TextEngine) drawLine(spec chart.Spec) string {
	var b strings.Builder
	if spec.X.Title != "" || spec.Y.Title != "" {
		b.WriteString(legendStyle.Render(fmt.Sprintf("%s by %s (%d points)", spec.Y.Title, strings.ToLower(spec.X.Title), len(spec.Labels))))
		b.WriteString("\n")
	}
	width := 0
	for _, s := range spec.Series {
		width = max(width, lipgloss.Width(s.Label))
	}
	for i, s := range spec.Series {
		style := lipgloss.NewStyle().Foreground(seriesColor[i%len(seriesColor)])
		values := pointsWithin(s, len(spec.Labels))
		line := fmt.Sprintf("%-*s %s", width, s.Label, style.Render(sparkline(values)))
		if len(values) > 0 {
			line += legendStyle.Render(fmt.Sprintf("  %.2f → %.2f", values[0], values[len(values)-1]))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *TextEngine) drawBars(spec chart.Spec) string {
	if len(spec.Series) == 0 {
		return ""
	}
	series := spec.Series[0]
	top := 0.0
	for i := range spec.Labels {
		if v, ok := series.Point(i); ok {
			top = math.Max(top, v)
		}
	}
	labelWidth := 0
	for _, l := range spec.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	format := chart.Format{Decimals: 2}
	if spec.Tooltip != nil {
		format = *spec.Tooltip
	}
	barWidth := e.BarWidth
	if barWidth <= 0 {
		barWidth = 40
	}

	var b strings.Builder
	for i, label := range spec.Labels {
		v, ok := series.Point(i)
		if !ok {
			fmt.Fprintf(&b, "%-*s %s\n", labelWidth, label, legendStyle.Render("—"))
			continue
		}
		n := 0
		if top > 0 && v > 0 {
			n = int(math.Round(v / top * float64(barWidth)))
		}
		fmt.Fprintf(&b, "%-*s %s %s\n", labelWidth, label, barStyle.Render(strings.Repeat("█", n)), format.Apply(v))
	}
	return strings.TrimRight(b.String(), "\n")
}

// pointsWithin returns the present values of s that fall on one of n categories.
func pointsWithin(s chart.Series, n int) []float64 {
	var out []float64
	for i := 0; i < n; i++ {
		if v, ok := s.Point(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
