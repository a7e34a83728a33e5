package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/results"
)

// missingValue stands in for a BLEU score that is absent or zero.
const missingValue = "—"

// bleuBars maps the fixed BLEU chart categories to payload keys.
var bleuBars = []struct {
	Label string
	Key   string
}{
	{"RNN", "rnn"},
	{"LSTM + Attention", "lstm"},
	{"GRU + Attention", "gru"},
	{"Transformer", "transformer"},
}

// RenderSummary writes the split counts, transformer BLEU, best model and
// epoch count.
func RenderSummary(s Surface, p results.Payload) {
	s.SetText(SlotCountTrain, fmt.Sprintf("Train: %d", p.Counts.Train))
	s.SetText(SlotCountVal, fmt.Sprintf("Val: %d", p.Counts.Val))
	s.SetText(SlotCountTest, fmt.Sprintf("Test: %d", p.Counts.Test))

	bleu := missingValue
	if v, ok := p.Bleu.Get("transformer"); ok && v != 0 {
		bleu = results.FormatBleuDisplay(v)
	}
	s.SetText(SlotBleuTransformer, bleu)
	s.SetText(SlotBestModel, strings.ToUpper(results.BestModel(p.Bleu)))
	s.SetText(SlotEpochs, fmt.Sprintf("%d epochs", p.Epochs))
}

// RenderExamples replaces the examples list with one block per example.
func RenderExamples(s Surface, p results.Payload) {
	s.ClearList(MountExamples)
	for i, ex := range p.Examples {
		s.AppendBlock(MountExamples, ExampleBlock{
			Number: i + 1,
			Source: ex.Src,
			Pred:   ex.Pred,
			Ref:    ex.Ref,
		})
	}
}

// LossChartSpec plots the train and validation loss against 1-based epochs.
// Curves are passed through as given, whatever their length.
func LossChartSpec(p results.Payload) chart.Spec {
	n := max(p.Epochs, 0)
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return chart.Spec{
		Kind:   chart.KindLine,
		Labels: labels,
		Series: []chart.Series{
			{Label: "Train Loss", Data: chart.Values(p.Losses.Train...), Tension: 0.2, BorderWidth: 2},
			{Label: "Val Loss", Data: chart.Values(p.Losses.Val...), Tension: 0.2, BorderWidth: 2},
		},
		Legend: chart.Legend{Display: true, Position: "top"},
		X:      chart.Axis{Title: "Epoch"},
		Y:      chart.Axis{Title: "Loss"},
	}
}

// BleuChartSpec plots the four model variants. A missing score is a gap.
func BleuChartSpec(p results.Payload) chart.Spec {
	labels := make([]string, 0, len(bleuBars))
	data := make([]*float64, 0, len(bleuBars))
	for _, bar := range bleuBars {
		labels = append(labels, bar.Label)
		if v, ok := p.Bleu.Get(bar.Key); ok {
			data = append(data, chart.Value(v))
		} else {
			data = append(data, nil)
		}
	}
	return chart.Spec{
		Kind:    chart.KindBar,
		Labels:  labels,
		Series:  []chart.Series{{Label: "BLEU (score)", Data: data, BorderRadius: 6}},
		Legend:  chart.Legend{Display: false},
		Y:       chart.Axis{Title: "BLEU (0-1)", Ticks: &chart.Format{Scale: 100, Decimals: 0, Suffix: "%"}},
		Tooltip: &chart.Format{Scale: 100, Decimals: 2, Prefix: "BLEU ≈ "},
	}
}

// RenderLossChart replaces the chart held by slot with the loss chart.
func RenderLossChart(engine chart.Engine, slot *chart.Slot, p results.Payload) error {
	return slot.Replace(engine, CanvasLoss, LossChartSpec(p))
}

// RenderBleuChart replaces the chart held by slot with the BLEU chart.
func RenderBleuChart(engine chart.Engine, slot *chart.Slot, p results.Payload) error {
	return slot.Replace(engine, CanvasBleu, BleuChartSpec(p))
}
