// Package dashboard runs the results pipeline: it validates a payload, writes
// the summary and examples into a display surface and (re)builds the loss and
// BLEU charts.
package dashboard

import (
	"sync"
)

// Mount point ids of the display surface.
const (
	SlotCountTrain      = "count-train"
	SlotCountVal        = "count-val"
	SlotCountTest       = "count-test"
	SlotBleuTransformer = "bleu-transform"
	SlotBestModel       = "best-model"
	SlotEpochs          = "epochs"
	MountExamples       = "examples"
	CanvasLoss          = "lossChart"
	CanvasBleu          = "bleuChart"
)

// SummarySlots lists the text slots in display order.
var SummarySlots = []string{
	SlotCountTrain,
	SlotCountVal,
	SlotCountTest,
	SlotBleuTransformer,
	SlotBestModel,
	SlotEpochs,
}

// ExampleBlock is one rendered translation example.
type ExampleBlock struct {
	Number int    `json:"number"`
	Source string `json:"source"`
	Pred   string `json:"pred"`
	Ref    string `json:"ref"`
}

// Surface is where renderers write. Implementations address mount points by id.
type Surface interface {
	SetText(id, text string)
	ClearList(id string)
	AppendBlock(id string, block ExampleBlock)
}

// Document is an in-memory Surface that page and terminal renderers read from.
type Document struct {
	mu    sync.RWMutex
	texts map[string]string
	lists map[string][]ExampleBlock
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		texts: make(map[string]string),
		lists: make(map[string][]ExampleBlock),
	}
}

func (d *Document) SetText(id, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[id] = text
}

func (d *Document) ClearList(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.lists, id)
}

func (d *Document) AppendBlock(id string, block ExampleBlock) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lists[id] = append(d.lists[id], block)
}

// Text returns the content of a text slot.
func (d *Document) Text(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.texts[id]
}

// Blocks returns a copy of the blocks under a list mount.
func (d *Document) Blocks(id string) []ExampleBlock {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]ExampleBlock(nil), d.lists[id]...)
}

// Summary returns the summary slots in display order.
func (d *Document) Summary() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(SummarySlots))
	for i, id := range SummarySlots {
		out[i] = d.texts[id]
	}
	return out
}
