package chart

import (
	"errors"
	"fmt"
	"sync"
)

// ErrCanvasInUse is returned when a chart is created on a canvas whose
// previous chart was never destroyed.
var ErrCanvasInUse = errors.New("canvas is already in use")

// Handle is a live chart that must be torn down explicitly.
type Handle interface {
	Destroy() error
}

// Engine draws a Spec onto a named canvas.
type Engine interface {
	Render(canvas string, spec Spec) (Handle, error)
}

// Slot owns at most one live chart and destroys it before taking another.
type Slot struct {
	mu     sync.Mutex
	handle Handle
}

// Replace destroys the current chart, then renders spec on canvas and keeps
// the new handle. If rendering fails the slot is left empty.
func (s *Slot) Replace(engine Engine, canvas string, spec Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		err := s.handle.Destroy()
		s.handle = nil
		if err != nil {
			return fmt.Errorf("destroy previous %s chart: %w", canvas, err)
		}
	}

	h, err := engine.Render(canvas, spec)
	if err != nil {
		return fmt.Errorf("render %s chart: %w", canvas, err)
	}
	s.handle = h
	return nil
}

// Clear destroys the current chart, if any.
func (s *Slot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle == nil {
		return nil
	}
	err := s.handle.Destroy()
	s.handle = nil
	return err
}

// Live reports whether the slot currently holds a chart.
func (s *Slot) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Tee renders every chart on all engines. Destroying the returned handle
// destroys every underlying chart.
func Tee(engines ...Engine) Engine {
	return teeEngine(engines)
}

type teeEngine []Engine

type teeHandle []Handle

func (t teeEngine) Render(canvas string, spec Spec) (Handle, error) {
	handles := make(teeHandle, 0, len(t))
	for _, e := range t {
		h, err := e.Render(canvas, spec)
		if err != nil {
			_ = handles.Destroy()
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (h teeHandle) Destroy() error {
	var errs []error
	for _, each := range h {
		if err := each.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
