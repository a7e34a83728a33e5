package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/results"
)

func TestTextEngineBarsAndGaps(t *testing.T) {
	e := NewTextEngine()
	e.BarWidth = 10
	spec := dashboard.BleuChartSpec(results.Sample())
	spec.Series[0].Data[1] = nil

	h, err := e.Render(dashboard.CanvasBleu, spec)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := e.Chart(dashboard.CanvasBleu)
	if !strings.Contains(out, "BLEU ≈ 23.10") {
		t.Errorf("expected tooltip-formatted value, got:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", 10)) {
		t.Errorf("expected a full-width bar for the top score, got:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 4 || !strings.Contains(lines[1], "—") {
		t.Errorf("expected a gap on the LSTM row, got:\n%s", out)
	}

	if err := h.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if got := e.Chart(dashboard.CanvasBleu); got != "" {
		t.Errorf("expected destroyed chart to be gone, got %q", got)
	}
}

func TestTextEngineCanvasInUse(t *testing.T) {
	e := NewTextEngine()
	spec := dashboard.LossChartSpec(results.Sample())
	if _, err := e.Render(dashboard.CanvasLoss, spec); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := e.Render(dashboard.CanvasLoss, spec); !errors.Is(err, chart.ErrCanvasInUse) {
		t.Fatalf("expected ErrCanvasInUse, got %v", err)
	}
}

func TestTextEngineLine(t *testing.T) {
	e := NewTextEngine()
	if _, err := e.Render(dashboard.CanvasLoss, dashboard.LossChartSpec(results.Sample())); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := e.Chart(dashboard.CanvasLoss)
	for _, want := range []string{"Train Loss", "Val Loss", "15 points", "2.34 → 1.25"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in line chart, got:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline([]float64{0, 1}); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
	if got := sparkline([]float64{3, 3, 3}); got != "▁▁▁" {
		t.Errorf("flat sparkline = %q", got)
	}
	if got := sparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
}

func TestRenderDashboard(t *testing.T) {
	doc := dashboard.NewDocument()
	charts := NewTextEngine()
	s := dashboard.NewSession(doc, charts, nil)
	if err := s.ApplySample(); err != nil {
		t.Fatalf("ApplySample: %v", err)
	}

	out := RenderDashboard("Results", doc, charts)
	for _, want := range []string{"Results", "Train: 40500", "23.10 (approx.)", "TRANSFORMER", "15 epochs", "#1 | SRC:", "Pred:", "Ref:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in dashboard", want)
		}
	}
}

func TestViewerQuit(t *testing.T) {
	m, err := newModel(context.Background(), "Results")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Error("Expected a quit command, but got nil")
	}
}

func TestViewerApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	body := `{"counts":{"train":1,"val":2,"test":3},"epochs":1,"losses":{"train":[1],"val":[2]},"bleu":{"rnn":0.5}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := newModel(context.Background(), "Results")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if !m.prompting {
		t.Fatal("expected the apply prompt to open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected an apply command")
	}
	if m.prompting || m.pending != 1 {
		t.Fatalf("expected prompt closed and one pending apply, got prompting=%v pending=%d", m.prompting, m.pending)
	}

	m.Update(cmd())
	if m.session.State() != dashboard.StateLoaded {
		t.Fatalf("expected loaded state, got %s", m.session.State())
	}
	if m.alert {
		t.Errorf("unexpected alert: %s", m.status)
	}
	if !strings.Contains(m.View(), "showing loaded data") {
		t.Errorf("expected status line, got:\n%s", m.View())
	}
	if got := m.doc.Text(dashboard.SlotCountTrain); got != "Train: 1" {
		t.Errorf("count-train = %q", got)
	}
}

func TestViewerApplyBadFileShowsNotice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"counts":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := newModel(context.Background(), "Results")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.handleApplied(<-m.session.Trigger(context.Background(), dashboard.LocalFile(path)))

	if !m.alert || !strings.HasPrefix(m.status, "JSON does not contain the expected fields") {
		t.Fatalf("expected validation notice, got alert=%v status=%q", m.alert, m.status)
	}
	if m.session.State() != dashboard.StateIdle {
		t.Errorf("expected the sample to stay on display, got %s", m.session.State())
	}
	if len(m.notices.Drain()) != 0 {
		t.Error("expected notices to be consumed by the status line")
	}
}

func TestViewerApplyWhileApplying(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	doc := `{"counts":{"train":%d,"val":2,"test":3},"epochs":1,"losses":{"train":[1],"val":[2]},"bleu":{"rnn":0.5}}`
	if err := os.WriteFile(first, []byte(fmt.Sprintf(doc, 1)), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte(fmt.Sprintf(doc, 2)), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := newModel(context.Background(), "Results")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	apply := func(path string) tea.Cmd {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
		if !m.prompting {
			t.Fatalf("expected the apply prompt to open with %d pending", m.pending)
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(path)})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected an apply command")
		}
		return cmd
	}
	slow := apply(first)
	fast := apply(second)
	if m.pending != 2 {
		t.Fatalf("expected 2 pending applies, got %d", m.pending)
	}

	m.Update(fast())
	m.Update(slow())
	if m.pending != 0 {
		t.Fatalf("expected no pending applies, got %d", m.pending)
	}
	if got := m.doc.Text(dashboard.SlotCountTrain); got != "Train: 1" {
		t.Errorf("last completed apply should be shown, count-train = %q", got)
	}
}

func TestViewerEscCancelsPrompt(t *testing.T) {
	m, err := newModel(context.Background(), "Results")
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.prompting || m.input.Value() != "" {
		t.Fatalf("expected prompt to close without applying")
	}
}

func TestRenderSummaryTruncatesExamples(t *testing.T) {
	doc := dashboard.NewDocument()
	charts := NewTextEngine()
	s := dashboard.NewSession(doc, charts, nil)
	p := results.Sample()
	p.Examples = []results.Example{{Src: strings.Repeat("palabra ", 20), Pred: "p", Ref: "r"}}
	if err := s.ApplyText("long.json", mustJSON(t, p)); err != nil {
		t.Fatalf("ApplyText: %v", err)
	}

	out := RenderSummary("Results", doc, charts)
	if strings.Contains(out, "Loss per epoch") {
		t.Error("summary should not include the loss chart")
	}
	if !strings.Contains(out, "BLEU by model") || !strings.Contains(out, "…") {
		t.Errorf("expected BLEU bars and a truncated example, got:\n%s", out)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
