// Package results models the training-results payload consumed by the
// dashboard: the presence gate, the typed record and the derived values.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Payload is a validated results document.
type Payload struct {
	Counts   Counts    `json:"counts"`
	Epochs   int       `json:"epochs"`
	Losses   Losses    `json:"losses"`
	Bleu     Scores    `json:"bleu"`
	Examples []Example `json:"examples"`
}

// Counts holds dataset split sizes.
type Counts struct {
	Train int `json:"train"`
	Val   int `json:"val"`
	Test  int `json:"test"`
}

// UnmarshalJSON accepts the epoch count as any whole JSON number, so 3 and
// 3.0 decode alike.
func (p *Payload) UnmarshalJSON(data []byte) error {
	type plain Payload
	aux := struct {
		*plain
		Epochs json.Number `json:"epochs"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	epochs, err := wholeNumber("epochs", aux.Epochs)
	if err != nil {
		return err
	}
	p.Epochs = epochs
	return nil
}

// UnmarshalJSON accepts split sizes written as whole floats.
func (c *Counts) UnmarshalJSON(data []byte) error {
	var aux struct {
		Train json.Number `json:"train"`
		Val   json.Number `json:"val"`
		Test  json.Number `json:"test"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var out Counts
	var err error
	if out.Train, err = wholeNumber("counts.train", aux.Train); err != nil {
		return err
	}
	if out.Val, err = wholeNumber("counts.val", aux.Val); err != nil {
		return err
	}
	if out.Test, err = wholeNumber("counts.test", aux.Test); err != nil {
		return err
	}
	*c = out
	return nil
}

// wholeNumber converts n to an int. An absent or null number is zero.
func wholeNumber(field string, n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if f != math.Trunc(f) || f < math.MinInt || f > math.MaxInt {
		return 0, fmt.Errorf("%s: %s is not a whole number", field, n)
	}
	return int(f), nil
}

// Losses holds the per-epoch loss curves.
type Losses struct {
	Train []float64 `json:"train"`
	Val   []float64 `json:"val"`
}

// Example is one source sentence with the model prediction and the reference.
type Example struct {
	Src  string `json:"src"`
	Pred string `json:"pred"`
	Ref  string `json:"ref"`
}

// Score is a named BLEU score.
type Score struct {
	Name  string
	Value float64
}

// Scores is a BLEU mapping that remembers the key order of the document it
// was decoded from.
type Scores []Score

// Get returns the score stored under name.
func (s Scores) Get(name string) (float64, bool) {
	for _, sc := range s {
		if sc.Name == name {
			return sc.Value, true
		}
	}
	return 0, false
}

// UnmarshalJSON decodes an object into Scores preserving key order. A
// repeated key keeps its first position and takes the last value.
func (s *Scores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("bleu must be an object, got %v", tok)
	}

	out := Scores{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var value *float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("bleu.%s: %w", key, err)
		}
		v := 0.0
		if value != nil {
			v = *value
		}
		if i, seen := index[key]; seen {
			out[i].Value = v
			continue
		}
		index[key] = len(out)
		out = append(out, Score{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON encodes Scores as an object in stored order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sc.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
