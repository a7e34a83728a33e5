package chart

import (
	"fmt"
	"sync"
)

// ChartJSConfig is the JSON handed to `new Chart(ctx, config)` in the page.
// Tick and tooltip formats travel as Format descriptions and are bound to
// callbacks by the page script.
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    ChartJSData    `json:"data"`
	Options ChartJSOptions `json:"options"`
}

type ChartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []ChartJSDataset `json:"datasets"`
}

type ChartJSDataset struct {
	Label        string     `json:"label"`
	Data         []*float64 `json:"data"`
	Fill         *bool      `json:"fill,omitempty"`
	Tension      float64    `json:"tension,omitempty"`
	BorderWidth  int        `json:"borderWidth,omitempty"`
	BorderRadius int        `json:"borderRadius,omitempty"`
}

type ChartJSOptions struct {
	Responsive bool                    `json:"responsive"`
	Plugins    ChartJSPlugins          `json:"plugins"`
	Scales     map[string]ChartJSScale `json:"scales"`
}

type ChartJSPlugins struct {
	Legend  ChartJSLegend   `json:"legend"`
	Tooltip *ChartJSTooltip `json:"tooltip,omitempty"`
}

type ChartJSLegend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type ChartJSTooltip struct {
	Format Format `json:"format"`
}

type ChartJSScale struct {
	Title ChartJSTitle  `json:"title"`
	Ticks *ChartJSTicks `json:"ticks,omitempty"`
}

type ChartJSTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text,omitempty"`
}

type ChartJSTicks struct {
	Format Format `json:"format"`
}

// ChartJSEngine keeps the Chart.js configuration of every live chart, keyed
// by canvas id. Like Chart.js itself it refuses a second chart on a canvas
// until the first one is destroyed.
type ChartJSEngine struct {
	mu     sync.Mutex
	charts map[string]*chartJSHandle
}

type chartJSHandle struct {
	engine *ChartJSEngine
	canvas string
	config ChartJSConfig
}

// NewChartJSEngine returns an engine with no charts.
func NewChartJSEngine() *ChartJSEngine {
	return &ChartJSEngine{charts: make(map[string]*chartJSHandle)}
}

// Render implements Engine.
func (e *ChartJSEngine) Render(canvas string, spec Spec) (Handle, error) {
	cfg, err := BuildChartJSConfig(spec)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.charts[canvas]; busy {
		return nil, fmt.Errorf("%w: %s", ErrCanvasInUse, canvas)
	}
	h := &chartJSHandle{engine: e, canvas: canvas, config: cfg}
	e.charts[canvas] = h
	return h, nil
}

func (h *chartJSHandle) Destroy() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	if current, ok := h.engine.charts[h.canvas]; ok && current == h {
		delete(h.engine.charts, h.canvas)
	}
	return nil
}

// Config returns the configuration drawn on canvas.
func (e *ChartJSEngine) Config(canvas string) (ChartJSConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.charts[canvas]
	if !ok {
		return ChartJSConfig{}, false
	}
	return h.config, true
}

// Configs returns a snapshot of every live chart.
func (e *ChartJSEngine) Configs() map[string]ChartJSConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]ChartJSConfig, len(e.charts))
	for canvas, h := range e.charts {
		out[canvas] = h.config
	}
	return out
}

// Live returns the number of charts not yet destroyed.
func (e *ChartJSEngine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.charts)
}

// BuildChartJSConfig translates a Spec into Chart.js terms.
func BuildChartJSConfig(spec Spec) (ChartJSConfig, error) {
	switch spec.Kind {
	case KindLine, KindBar:
	default:
		return ChartJSConfig{}, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}

	datasets := make([]ChartJSDataset, 0, len(spec.Series))
	for _, s := range spec.Series {
		ds := ChartJSDataset{
			Label:        s.Label,
			Data:         s.Data,
			Tension:      s.Tension,
			BorderWidth:  s.BorderWidth,
			BorderRadius: s.BorderRadius,
		}
		if spec.Kind == KindLine {
			fill := s.Fill
			ds.Fill = &fill
		}
		datasets = append(datasets, ds)
	}

	cfg := ChartJSConfig{
		Type: string(spec.Kind),
		Data: ChartJSData{
			Labels:   append([]string{}, spec.Labels...),
			Datasets: datasets,
		},
		Options: ChartJSOptions{
			Responsive: true,
			Plugins: ChartJSPlugins{
				Legend: ChartJSLegend{Display: spec.Legend.Display, Position: spec.Legend.Position},
			},
			Scales: map[string]ChartJSScale{
				"x": buildScale(spec.X),
				"y": buildScale(spec.Y),
			},
		},
	}
	if spec.Tooltip != nil {
		cfg.Options.Plugins.Tooltip = &ChartJSTooltip{Format: *spec.Tooltip}
	}
	return cfg, nil
}

func buildScale(axis Axis) ChartJSScale {
	scale := ChartJSScale{Title: ChartJSTitle{Display: axis.Title != "", Text: axis.Title}}
	if axis.Ticks != nil {
		scale.Ticks = &ChartJSTicks{Format: *axis.Ticks}
	}
	return scale
}
