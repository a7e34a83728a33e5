package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	defaultPNGWidth  = 1024
	defaultPNGHeight = 480
)

// PNGEngine renders charts to <Dir>/<canvas>.png with go-chart. Destroying a
// handle removes its file.
type PNGEngine struct {
	Dir    string
	Width  int
	Height int

	mu   sync.Mutex
	live map[string]*pngHandle
}

type pngHandle struct {
	engine *PNGEngine
	canvas string
	path   string
}

// NewPNGEngine returns an engine writing into dir.
func NewPNGEngine(dir string) *PNGEngine {
	return &PNGEngine{Dir: dir, Width: defaultPNGWidth, Height: defaultPNGHeight, live: make(map[string]*pngHandle)}
}

// Render implements Engine.
func (e *PNGEngine) Render(canvas string, spec Spec) (Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.live == nil {
		e.live = make(map[string]*pngHandle)
	}
	if _, busy := e.live[canvas]; busy {
		return nil, fmt.Errorf("%w: %s", ErrCanvasInUse, canvas)
	}

	if e.Dir != "" {
		if err := os.MkdirAll(e.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create chart directory %s: %w", e.Dir, err)
		}
	}
	path := filepath.Join(e.Dir, canvas+".png")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s: %w", path, err)
	}
	width, height := e.size()
	renderErr := WritePNG(file, spec, width, height)
	closeErr := file.Close()
	if err := errors.Join(renderErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("unable to render %s: %w", path, err)
	}

	h := &pngHandle{engine: e, canvas: canvas, path: path}
	e.live[canvas] = h
	return h, nil
}

func (e *PNGEngine) size() (int, int) {
	w, h := e.Width, e.Height
	if w <= 0 {
		w = defaultPNGWidth
	}
	if h <= 0 {
		h = defaultPNGHeight
	}
	return w, h
}

func (h *pngHandle) Destroy() error {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	current, ok := h.engine.live[h.canvas]
	if !ok || current != h {
		return nil
	}
	delete(h.engine.live, h.canvas)
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path returns the file holding the chart drawn on canvas.
func (e *PNGEngine) Path(canvas string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.live[canvas]
	if !ok {
		return "", false
	}
	return h.path, true
}

// WritePNG draws spec as a PNG image of the given size.
func WritePNG(w io.Writer, spec Spec, width, height int) error {
	switch spec.Kind {
	case KindLine:
		return writeLinePNG(w, spec, width, height)
	case KindBar:
		return writeBarPNG(w, spec, width, height)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

func writeLinePNG(w io.Writer, spec Spec, width, height int) error {
	var series []gochart.Series
	xLo, xHi := math.Inf(1), math.Inf(-1)
	yLo, yHi := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		var xs, ys []float64
		for i := range spec.Labels {
			v, ok := s.Point(i)
			if !ok {
				continue
			}
			x := float64(i + 1)
			xs = append(xs, x)
			ys = append(ys, v)
			xLo, xHi = math.Min(xLo, x), math.Max(xHi, x)
			yLo, yHi = math.Min(yLo, v), math.Max(yHi, v)
		}
		if len(xs) == 0 {
			continue
		}
		series = append(series, gochart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys})
	}
	if len(series) == 0 {
		return errors.New("line chart has no points to draw")
	}

	graph := gochart.Chart{
		Width:  width,
		Height: height,
		XAxis: gochart.XAxis{
			Name: spec.X.Title,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			Name:           spec.Y.Title,
			ValueFormatter: formatterFor(spec.Y.Ticks),
		},
		Series: series,
	}
	// go-chart refuses zero-width ranges: a single epoch or a flat curve
	// gets half a unit of room on each side.
	if xLo == xHi {
		graph.XAxis.Ticks = []gochart.Tick{
			{Value: xLo - 0.5},
			{Value: xLo, Label: spec.Labels[int(xLo)-1]},
			{Value: xLo + 0.5},
		}
	}
	if yLo == yHi {
		graph.YAxis.Range = &gochart.ContinuousRange{Min: yLo - 0.5, Max: yHi + 0.5}
	}
	if spec.Legend.Display {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return graph.Render(gochart.PNG, w)
}

func writeBarPNG(w io.Writer, spec Spec, width, height int) error {
	if len(spec.Series) == 0 {
		return errors.New("bar chart has no series")
	}
	first := spec.Series[0]
	bars := make([]gochart.Value, 0, len(spec.Labels))
	lo, hi := 0.0, 0.0
	for i, label := range spec.Labels {
		v, _ := first.Point(i)
		bars = append(bars, gochart.Value{Label: label, Value: v})
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if len(bars) == 0 {
		return errors.New("bar chart has no categories")
	}
	// Bars grow from zero; all-zero or missing scores still get a unit range.
	if hi == lo {
		hi = lo + 1
	}

	graph := gochart.BarChart{
		Width:    width,
		Height:   height,
		BarWidth: 80,
		YAxis: gochart.YAxis{
			Name:           spec.Y.Title,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatterFor(spec.Y.Ticks),
		},
		Bars: bars,
	}
	return graph.Render(gochart.PNG, w)
}

func formatterFor(f *Format) gochart.ValueFormatter {
	if f == nil {
		return nil
	}
	format := *f
	return func(v interface{}) string {
		if n, ok := v.(float64); ok {
			return format.Apply(n)
		}
		return fmt.Sprintf("%v", v)
	}
}
