package dashboard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mwiater/mtdash/internal/chart"
)

func TestRenderPage(t *testing.T) {
	doc := NewDocument()
	engine := chart.NewChartJSEngine()
	session := NewSession(doc, engine, nil)
	if err := session.ApplySample(); err != nil {
		t.Fatalf("ApplySample: %v", err)
	}
	doc.AppendBlock(MountExamples, ExampleBlock{Number: 4, Source: "<script>x</script>"})

	data, err := BuildPage("Results", doc, engine, []string{"hello"}, "/apply", session.State())
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<title>Results</title>`,
		`id="count-train">Train: 40500<`,
		`id="best-model">TRANSFORMER<`,
		`id="bleu-transform">23.10 (approx.)<`,
		`id="epochs">15 epochs<`,
		`#1 | SRC: hola, ¿cómo estás?`,
		`&lt;script&gt;x&lt;/script&gt;`,
		`"lossChart":`,
		`"bleuChart":`,
		`var notices = ["hello"];`,
		`action="/apply"`,
		`showing idle`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestRenderPageStatic(t *testing.T) {
	doc := NewDocument()
	engine := chart.NewChartJSEngine()
	data, err := BuildPage("Static", doc, engine, nil, "", StateIdle)
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `id="btnApply"`) {
		t.Fatal("static page must not carry the apply form")
	}
	if !strings.Contains(out, `var notices = [];`) || !strings.Contains(out, `var charts = {};`) {
		t.Fatal("expected empty charts and notices")
	}
}
