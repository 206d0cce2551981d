package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/warehouse/internal/contracts"
)

const fence = "```"

var errUnexpectedShape = errors.New("expected a JSON array or object")

// Interpretation is the interpreter's verdict on one provider answer
type Interpretation struct {
	Predictions []contracts.Prediction
	// Synthesized is true when the answer was unusable and placeholders were produced instead
	Synthesized bool
	ParseError  error
}

// Interpret turns raw provider text into predictions.
// A parse failure never surfaces as an error: fallback produces the placeholder set instead.
func Interpret(raw string, fallback func() []contracts.Prediction) Interpretation {
	preds, err := ParsePredictions(raw)
	if err != nil {
		return Interpretation{
			Predictions: fallback(),
			Synthesized: true,
			ParseError:  err,
		}
	}
	return Interpretation{Predictions: preds}
}

// ParsePredictions decodes a JSON array (optionally inside a markdown fence) of prediction objects.
// Elements without a product identifier are dropped. PredictionDate is left for the writer.
func ParsePredictions(raw string) ([]contracts.Prediction, error) {
	body := extractJSON(raw)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode forecast json: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode forecast json: trailing data")
	}

	var elements []interface{}
	switch v := decoded.(type) {
	case []interface{}:
		elements = v
	case map[string]interface{}:
		elements = []interface{}{v}
	default:
		return nil, errUnexpectedShape
	}

	preds := make([]contracts.Prediction, 0, len(elements))
	for _, el := range elements {
		obj, ok := el.(map[string]interface{})
		if !ok {
			continue
		}
		id := productID(obj)
		if id == "" {
			continue
		}

		p := contracts.Prediction{
			ProductID:         id,
			DaysUntilStockout: toInt64(obj["days_until_stockout"]),
			RecommendedOrder:  toInt64(obj["recommended_order"]),
			Source:            contracts.SourceProvider,
		}
		if c, ok := obj["confidence"]; ok {
			p.ConfidenceScore = toConfidence(c)
		} else {
			p.ConfidenceScore = toConfidence(obj["confidence_score"])
		}
		preds = append(preds, p)
	}

	return preds, nil
}

// extractJSON narrows fenced text to the array between the first '[' and the last ']'.
// Fenced text without brackets loses its fence lines instead.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.Contains(text, fence) {
		return text
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		return text[start : end+1]
	}

	var buf bytes.Buffer
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return strings.TrimSpace(buf.String())
}

// productID reads product_id, falling back to product_name
func productID(obj map[string]interface{}) string {
	for _, key := range []string{"product_id", "product_name"} {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	var s string
	switch n := v.(type) {
	case json.Number:
		s = n.String()
	case string:
		s = strings.TrimSpace(n)
	default:
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// toInt64 truncates a JSON number (or numeric string) toward zero; anything else is nil
func toInt64(v interface{}) *int64 {
	d, ok := toDecimal(v)
	if !ok {
		return nil
	}
	d = d.Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return nil
	}
	n := d.IntPart()
	return &n
}

// toConfidence casts to float and clamps into [0, 1]
func toConfidence(v interface{}) *float64 {
	d, ok := toDecimal(v)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	if math.IsNaN(f) {
		return nil
	}
	f = math.Max(0, math.Min(1, f))
	return &f
}
