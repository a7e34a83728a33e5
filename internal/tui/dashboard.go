package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/mtdash/internal/dashboard"
	"github.com/mwiater/mtdash/internal/util"
)

// exampleWidth is where example text wraps in the full dashboard and is cut in
// the summary.
const exampleWidth = 72

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	cardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)
	srcStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// RenderDashboard lays out the summary cards, both charts and the examples.
func RenderDashboard(title string, doc *dashboard.Document, charts *TextEngine) string {
	var b strings.Builder
	writeHeader(&b, title, doc)
	writeSection(&b, "Loss per epoch", orNone(charts.Chart(dashboard.CanvasLoss)))
	writeSection(&b, "BLEU by model", orNone(charts.Chart(dashboard.CanvasBleu)))
	writeSection(&b, "Example translations", renderExamples(doc, func(s string) string {
		return strings.ReplaceAll(util.WrapToWidth(s, exampleWidth), "\n", "\n        ")
	}))
	return b.String()
}

// RenderSummary is the compact, non-interactive form: cards, the BLEU bars and
// one line per example field.
func RenderSummary(title string, doc *dashboard.Document, charts *TextEngine) string {
	var b strings.Builder
	writeHeader(&b, title, doc)
	writeSection(&b, "BLEU by model", orNone(charts.Chart(dashboard.CanvasBleu)))
	writeSection(&b, "Example translations", renderExamples(doc, func(s string) string {
		return util.TruncateRunes(s, exampleWidth)
	}))
	return b.String()
}

func writeHeader(b *strings.Builder, title string, doc *dashboard.Document) {
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	cards := []string{
		card("Dataset", doc.Text(dashboard.SlotCountTrain), doc.Text(dashboard.SlotCountVal), doc.Text(dashboard.SlotCountTest)),
		card("Transformer BLEU", doc.Text(dashboard.SlotBleuTransformer)),
		card("Best model", doc.Text(dashboard.SlotBestModel)),
		card("Training", doc.Text(dashboard.SlotEpochs)),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, heading, body string) {
	b.WriteString(headStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
}

func renderExamples(doc *dashboard.Document, fit func(string) string) string {
	blocks := doc.Blocks(dashboard.MountExamples)
	if len(blocks) == 0 {
		return labelStyle.Render("(none)")
	}
	var b strings.Builder
	for i, ex := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(srcStyle.Render(fmt.Sprintf("#%d | SRC: %s", ex.Number, fit(ex.Source))))
		fmt.Fprintf(&b, "\n  %s %s", labelStyle.Render("Pred:"), fit(ex.Pred))
		fmt.Fprintf(&b, "\n  %s  %s", labelStyle.Render("Ref:"), fit(ex.Ref))
	}
	return b.String()
}

func card(label string, lines ...string) string {
	parts := []string{labelStyle.Render(label)}
	for _, l := range lines {
		parts = append(parts, valueStyle.Render(l))
	}
	return cardStyle.Render(strings.Join(parts, "\n"))
}

func orNone(s string) string {
	if s == "" {
		return labelStyle.Render("(no chart)")
	}
	return s
}
