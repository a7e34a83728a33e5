package results

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const validDoc = `{
  "counts": {"train": 10, "val": 2, "test": 3},
  "epochs": 3,
  "losses": {"train": [1.5, 1.2, 1.0], "val": [1.6, 1.4, 1.3]},
  "bleu": {"transformer": 0.2, "rnn": 0.05, "lstm": 0.2, "gru": 0.1},
  "examples": [{"src": "hola", "pred": "salut", "ref": "bonjour"}]
}`

func TestFormatters(t *testing.T) {
	if got := FormatPercentage(0.5); got != "50.00%" {
		t.Fatalf("FormatPercentage(0.5) = %q", got)
	}
	if got := FormatBleuDisplay(0.231); got != "23.10 (approx.)" {
		t.Fatalf("FormatBleuDisplay(0.231) = %q", got)
	}
	if got := FormatPercentage(0); got != "0.00%" {
		t.Fatalf("FormatPercentage(0) = %q", got)
	}
}

func TestBestModelSample(t *testing.T) {
	if got := BestModel(Sample().Bleu); got != "transformer" {
		t.Fatalf("expected transformer, got %q", got)
	}
}

func TestBestModelTieKeepsDocumentOrder(t *testing.T) {
	p, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// transformer and lstm share 0.2; transformer comes first in the document.
	if got := BestModel(p.Bleu); got != "transformer" {
		t.Fatalf("expected transformer on tie, got %q", got)
	}
}

func TestBestModelIsMaximum(t *testing.T) {
	cases := []Scores{
		{{"a", 0.1}},
		{{"a", 0.1}, {"b", 0.3}, {"c", 0.2}},
		{{"x", -1}, {"y", -0.5}},
		{{"rnn", 0.078}, {"lstm", 0.145}, {"gru", 0.132}, {"transformer", 0.231}, {"extra", 0.4}},
	}
	for _, scores := range cases {
		best := BestModel(scores)
		bestScore, ok := scores.Get(best)
		if !ok {
			t.Fatalf("best model %q not in %v", best, scores)
		}
		for _, sc := range scores {
			if sc.Value > bestScore {
				t.Fatalf("best %q (%v) beaten by %q (%v)", best, bestScore, sc.Name, sc.Value)
			}
		}
	}
	if got := BestModel(nil); got != "" {
		t.Fatalf("expected empty name for empty scores, got %q", got)
	}
}

func TestBestModelDoesNotReorderInput(t *testing.T) {
	scores := Scores{{"a", 0.1}, {"b", 0.9}}
	_ = BestModel(scores)
	if scores[0].Name != "a" {
		t.Fatalf("input reordered: %v", scores)
	}
}

func TestParseValid(t *testing.T) {
	p, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Counts.Train != 10 || p.Counts.Val != 2 || p.Counts.Test != 3 {
		t.Fatalf("unexpected counts: %+v", p.Counts)
	}
	if p.Epochs != 3 || len(p.Losses.Train) != 3 || len(p.Losses.Val) != 3 {
		t.Fatalf("unexpected epochs/losses: %+v", p)
	}
	names := make([]string, 0, len(p.Bleu))
	for _, sc := range p.Bleu {
		names = append(names, sc.Name)
	}
	if strings.Join(names, ",") != "transformer,rnn,lstm,gru" {
		t.Fatalf("bleu order not preserved: %v", names)
	}
	if len(p.Examples) != 1 || p.Examples[0].Ref != "bonjour" {
		t.Fatalf("unexpected examples: %+v", p.Examples)
	}
}

func TestParseMissingBleu(t *testing.T) {
	_, err := Parse([]byte(`{"counts": {}, "losses": {}}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(err.Error(), "bleu") {
		t.Fatalf("expected bleu in message, got %q", err.Error())
	}
	if IsParseError(err) {
		t.Fatal("validation failure must not be reported as parse error")
	}
}

func TestParseRejectsNullAndNonObjects(t *testing.T) {
	for _, doc := range []string{
		`null`,
		`[]`,
		`42`,
		`{"counts": null, "losses": {}, "bleu": {}}`,
		`{"counts": {}, "losses": [], "bleu": {}}`,
		`{"counts": {}, "losses": {}, "bleu": "high"}`,
	} {
		if _, err := Parse([]byte(doc)); !IsValidationError(err) {
			t.Fatalf("Parse(%s): expected validation error, got %v", doc, err)
		}
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`{"counts": `))
	if !IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	var pe *ParseError
	errors.As(err, &pe)
	if strings.TrimSpace(pe.Reason) == "" {
		t.Fatal("expected non-empty reason")
	}
	if !strings.HasPrefix(err.Error(), "error parsing JSON: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestParseOptionalFields(t *testing.T) {
	p, err := Parse([]byte(`{"counts": {}, "losses": {}, "bleu": {}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Epochs != 0 || p.Examples != nil || len(p.Bleu) != 0 {
		t.Fatalf("expected zero optional fields, got %+v", p)
	}
}

func TestParseTypeMismatchIsParseError(t *testing.T) {
	_, err := Parse([]byte(`{"counts": {"train": "many"}, "losses": {}, "bleu": {}}`))
	if !IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}
	_, err = Parse([]byte(`{"counts": {}, "losses": {}, "bleu": {"rnn": "x"}}`))
	if !IsParseError(err) {
		t.Fatalf("expected parse error for bad bleu value, got %v", err)
	}
}

func TestParseWholeFloatCounts(t *testing.T) {
	p, err := Parse([]byte(`{"counts": {"train": 40500.0, "val": 4500, "test": 5e3},
		"epochs": 15.0, "losses": {}, "bleu": {}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := Counts{Train: 40500, Val: 4500, Test: 5000}
	if p.Counts != want || p.Epochs != 15 {
		t.Fatalf("got counts %+v epochs %d", p.Counts, p.Epochs)
	}

	for _, doc := range []string{
		`{"counts": {}, "epochs": 15.5, "losses": {}, "bleu": {}}`,
		`{"counts": {"test": 0.25}, "losses": {}, "bleu": {}}`,
	} {
		if _, err := Parse([]byte(doc)); !IsParseError(err) {
			t.Fatalf("Parse(%s): expected parse error, got %v", doc, err)
		}
	}
}

func TestScoresJSONKeepsOrder(t *testing.T) {
	var s Scores
	if err := json.Unmarshal([]byte(`{"b": 1, "a": null, "b": 2}`), &s); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(s) != 2 || s[0].Name != "b" || s[0].Value != 2 || s[1].Name != "a" || s[1].Value != 0 {
		t.Fatalf("unexpected scores: %+v", s)
	}
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(out) != `{"b":2,"a":0}` {
		t.Fatalf("unexpected encoding: %s", out)
	}
}

func TestSampleIsFreshCopy(t *testing.T) {
	a := Sample()
	a.Losses.Train[0] = 99
	a.Bleu[0].Value = 1
	b := Sample()
	if b.Losses.Train[0] != 2.34 || b.Bleu[0].Value != 0.078 {
		t.Fatal("Sample must not share state between calls")
	}
	if b.Epochs != len(b.Losses.Train) || b.Epochs != len(b.Losses.Val) {
		t.Fatal("sample loss curves must match epochs")
	}
}
