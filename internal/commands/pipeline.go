package mtdash

import (
	"context"
	"fmt"

	"github.com/mwiater/mtdash/internal/chart"
	"github.com/mwiater/mtdash/internal/dashboard"
)

// pipeline is one non-interactive session.
type pipeline struct {
	doc     *dashboard.Document
	notices *dashboard.Notices
	session *dashboard.Session
}

// runPipeline renders the sample, or input when set, through engine.
func runPipeline(ctx context.Context, engine chart.Engine, input string) (*pipeline, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &pipeline{doc: dashboard.NewDocument(), notices: &dashboard.Notices{}}
	p.session = dashboard.NewSession(p.doc, engine, p.notices)

	var file dashboard.FileSource
	if input != "" {
		file = dashboard.LocalFile(input)
	}
	if err := <-p.session.Trigger(ctx, file); err != nil {
		if input == "" {
			return nil, fmt.Errorf("render sample: %w", err)
		}
		return nil, fmt.Errorf("apply %s: %w", input, err)
	}
	return p, nil
}
