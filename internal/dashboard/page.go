package dashboard

import (
	"encoding/json"
	"html/template"
	"io"
	"time"

	"github.com/mwiater/mtdash/internal/chart"
)

// PageData is the view model of the HTML dashboard.
type PageData struct {
	Title       string
	Generated   string
	State       string
	Slots       map[string]string
	Examples    []ExampleBlock
	ApplyAction string
	ChartsJSON  template.JS
	NoticesJSON template.JS
}

// BuildPage snapshots the document, the live Chart.js charts and the pending
// notices. applyAction is the form target of the apply button; leave it empty
// for a static page.
func BuildPage(title string, doc *Document, engine *chart.ChartJSEngine, notices []string, applyAction string, state State) (PageData, error) {
	slots := make(map[string]string, len(SummarySlots))
	for _, id := range SummarySlots {
		slots[id] = doc.Text(id)
	}

	charts, err := json.Marshal(engine.Configs())
	if err != nil {
		return PageData{}, err
	}
	if notices == nil {
		notices = []string{}
	}
	pending, err := json.Marshal(notices)
	if err != nil {
		return PageData{}, err
	}

	return PageData{
		Title:       title,
		Generated:   time.Now().Format(time.RFC1123),
		State:       state.String(),
		Slots:       slots,
		Examples:    doc.Blocks(MountExamples),
		ApplyAction: applyAction,
		ChartsJSON:  template.JS(charts),
		NoticesJSON: template.JS(pending),
	}, nil
}

// RenderPage writes the dashboard page.
func RenderPage(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}

var pageTemplate = template.Must(template.New("dashboard").Parse(pageTemplateHTML))

const pageTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --border: #E2E8F0;
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark {
      background-color: var(--primary) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .stat-label {
      color: var(--secondary);
      font-size: 0.85rem;
      text-transform: uppercase;
    }
    .stat-value {
      font-size: 1.35rem;
      font-weight: 700;
    }
    .chart-card {
      border-radius: 16px;
      padding: 1.5rem;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
    }
    .chart-title {
      font-size: 1.25rem;
      font-weight: 700;
      margin-bottom: 1rem;
    }
    .chart-canvas {
      position: relative;
      height: 360px;
    }
    .example {
      border-left: 4px solid var(--accent);
      padding: 0.5rem 1rem;
      margin-bottom: 0.75rem;
      background-color: var(--background);
    }
    .example h5 {
      font-size: 1rem;
      margin-bottom: 0.35rem;
    }
    .example p {
      margin-bottom: 0.15rem;
    }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <span class="text-light small">Generated: {{ .Generated }} &middot; showing {{ .State }}</span>
    </div>
  </nav>
  <main class="container-fluid my-4">
    {{ if .ApplyAction }}
    <section class="mb-4">
      <form class="card shadow-sm" method="post" action="{{ .ApplyAction }}" enctype="multipart/form-data">
        <div class="card-body d-flex gap-3 align-items-center flex-wrap">
          <input class="form-control form-control-sm w-auto" type="file" id="fileInput" name="file" accept=".json,application/json">
          <button class="btn btn-sm btn-primary" type="submit" id="btnApply">Apply</button>
          <span class="text-muted small">No file selected re-applies the sample.</span>
        </div>
      </form>
    </section>
    {{ end }}

    <section class="row g-3">
      <div class="col-md-4">
        <div class="card shadow-sm h-100"><div class="card-body">
          <div class="stat-label">Dataset</div>
          <div id="count-train">{{ index .Slots "count-train" }}</div>
          <div id="count-val">{{ index .Slots "count-val" }}</div>
          <div id="count-test">{{ index .Slots "count-test" }}</div>
        </div></div>
      </div>
      <div class="col-md-3">
        <div class="card shadow-sm h-100"><div class="card-body">
          <div class="stat-label">Transformer BLEU</div>
          <div class="stat-value" id="bleu-transform">{{ index .Slots "bleu-transform" }}</div>
        </div></div>
      </div>
      <div class="col-md-3">
        <div class="card shadow-sm h-100"><div class="card-body">
          <div class="stat-label">Best model</div>
          <div class="stat-value" id="best-model">{{ index .Slots "best-model" }}</div>
        </div></div>
      </div>
      <div class="col-md-2">
        <div class="card shadow-sm h-100"><div class="card-body">
          <div class="stat-label">Training</div>
          <div class="stat-value" id="epochs">{{ index .Slots "epochs" }}</div>
        </div></div>
      </div>
    </section>

    <section class="row g-3 mt-1">
      <div class="col-xl-6">
        <div class="card chart-card">
          <div class="chart-title">Loss per epoch</div>
          <div class="chart-canvas"><canvas id="lossChart" aria-label="Loss per epoch" role="img"></canvas></div>
        </div>
      </div>
      <div class="col-xl-6">
        <div class="card chart-card">
          <div class="chart-title">BLEU by model</div>
          <div class="chart-canvas"><canvas id="bleuChart" aria-label="BLEU by model" role="img"></canvas></div>
        </div>
      </div>
    </section>

    <section class="mt-4">
      <div class="card shadow-sm">
        <div class="card-header bg-white"><h5 class="mb-0">Example translations</h5></div>
        <div class="card-body" id="examples">
          {{ range .Examples }}
          <div class="example">
            <h5>#{{ .Number }} | SRC: {{ .Source }}</h5>
            <p><strong>Pred:</strong> {{ .Pred }}</p>
            <p><strong>Ref:</strong> {{ .Ref }}</p>
          </div>
          {{ end }}
        </div>
      </div>
    </section>
  </main>

  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var charts = {{ .ChartsJSON }};
    var notices = {{ .NoticesJSON }};
  </script>
  <script>
    (function() {
      function formatValue(fmt, value) {
        var scale = fmt.scale || 1;
        return (fmt.prefix || '') + (Number(value) * scale).toFixed(fmt.decimals || 0) + (fmt.suffix || '');
      }

      function bindFormats(config) {
        var options = config.options || {};
        var scales = options.scales || {};
        Object.keys(scales).forEach(function(axis) {
          var ticks = scales[axis].ticks;
          if (ticks && ticks.format) {
            var tickFormat = ticks.format;
            ticks.callback = function(value) { return formatValue(tickFormat, value); };
          }
        });
        var tooltip = options.plugins && options.plugins.tooltip;
        if (tooltip && tooltip.format) {
          var tooltipFormat = tooltip.format;
          tooltip.callbacks = { label: function(ctx) { return formatValue(tooltipFormat, ctx.parsed.y); } };
        }
        return config;
      }

      Object.keys(charts).forEach(function(id) {
        var canvas = document.getElementById(id);
        if (!canvas) {
          return;
        }
        new Chart(canvas.getContext('2d'), bindFormats(charts[id]));
      });

      notices.forEach(function(message) {
        alert(message);
      });
    })();
  </script>
</body>
</html>
`
