package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/logging"
	"github.com/mwiater/mtdash/internal/results"
)

// State is the input controller state.
type State int

const (
	// StateIdle shows the built-in sample.
	StateIdle State = iota
	// StateLoaded shows a user-supplied payload.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Notifier delivers blocking, user-visible messages.
type Notifier interface {
	Notify(message string)
}

// Notices queues notifications until a surface shows them.
type Notices struct {
	mu      sync.Mutex
	pending []string
}

func (n *Notices) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, message)
}

// Drain returns and forgets the queued notifications.
func (n *Notices) Drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.pending
	n.pending = nil
	return out
}

// FileSource is a user-selected file.
type FileSource interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a FileSource on the local filesystem.
type LocalFile string

func (f LocalFile) Name() string { return filepath.Base(string(f)) }

func (f LocalFile) Open() (io.ReadCloser, error) { return os.Open(string(f)) }

// ReadResult is the outcome of ReadText.
type ReadResult struct {
	Text []byte
	Err  error
}

var utf8BOM = []byte("\xef\xbb\xbf")

// ReadText reads the whole file in the background and delivers exactly one
// result. A leading UTF-8 byte order mark is dropped.
func ReadText(file FileSource) <-chan ReadResult {
	out := make(chan ReadResult, 1)
	go func() {
		rc, err := file.Open()
		if err != nil {
			out <- ReadResult{Err: err}
			return
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			out <- ReadResult{Err: err}
			return
		}
		out <- ReadResult{Text: bytes.TrimPrefix(data, utf8BOM)}
	}()
	return out
}

// Session composes the renderers. It owns the two chart slots and the payload
// currently on display.
type Session struct {
	ID uuid.UUID

	surface  Surface
	engine   chart.Engine
	notifier Notifier

	mu        sync.Mutex
	lossChart chart.Slot
	bleuChart chart.Slot
	current   *results.Payload
	state     State
}

// NewSession returns a session that has not rendered anything yet.
func NewSession(surface Surface, engine chart.Engine, notifier Notifier) *Session {
	if notifier == nil {
		notifier = &Notices{}
	}
	return &Session{
		ID:       uuid.New(),
		surface:  surface,
		engine:   engine,
		notifier: notifier,
	}
}

// State returns the controller state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the payload on display.
func (s *Session) Current() (results.Payload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return results.Payload{}, false
	}
	return *s.current, true
}

// Read calls fn with the payload on display (nil before the first apply) and
// the controller state. No apply can start or finish while fn runs, so
// anything fn reads from the surface or the chart engine belongs to the same
// payload. fn must not call back into the session.
func (s *Session) Read(fn func(current *results.Payload, state State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.current, s.state)
}

// ApplySample shows the built-in sample.
func (s *Session) ApplySample() error {
	return s.apply("sample", results.Sample(), StateIdle)
}

// ApplyText parses raw text and shows it. Parse and validation failures are
// notified and leave the current view untouched.
func (s *Session) ApplyText(source string, raw []byte) error {
	p, err := results.Parse(raw)
	if err != nil {
		s.notifier.Notify(err.Error())
		outcome := "invalid"
		if results.IsParseError(err) {
			outcome = "unparsable"
		}
		logging.LogApply(s.ID.String(), source, outcome, err)
		return err
	}
	return s.apply(source, p, StateLoaded)
}

// Trigger is the apply action. Without a file it re-applies the sample
// synchronously. With a file it reads and applies it in the background; the
// returned channel yields the outcome once.
//
// Triggers are not serialized: when several reads overlap, the one that
// completes last is what stays on display.
func (s *Session) Trigger(ctx context.Context, file FileSource) <-chan error {
	done := make(chan error, 1)
	if file == nil {
		done <- s.ApplySample()
		return done
	}

	go func() {
		select {
		case res := <-ReadText(file):
			if res.Err != nil {
				err := fmt.Errorf("error reading %s: %w", file.Name(), res.Err)
				s.notifier.Notify(err.Error())
				logging.LogApply(s.ID.String(), file.Name(), "unreadable", res.Err)
				done <- err
				return
			}
			done <- s.ApplyText(file.Name(), res.Text)
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done
}

// Close destroys both charts.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.lossChart.Clear(), s.bleuChart.Clear())
}

func (s *Session) apply(source string, p results.Payload, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	RenderSummary(s.surface, p)
	RenderExamples(s.surface, p)
	err := errors.Join(
		RenderLossChart(s.engine, &s.lossChart, p),
		RenderBleuChart(s.engine, &s.bleuChart, p),
	)

	s.current = &p
	s.state = state

	summary := map[string]any{
		"epochs":   p.Epochs,
		"examples": len(p.Examples),
		"best":     results.BestModel(p.Bleu),
	}
	if err != nil {
		s.notifier.Notify(err.Error())
		logging.LogApply(s.ID.String(), source, "chart-error", err)
		return err
	}
	logging.LogApply(s.ID.String(), source, "rendered", summary)
	return nil
}
