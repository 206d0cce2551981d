package stock

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/warehouse/internal/contracts"
)

// Default classification thresholds
const (
	DefaultIdeal    int64 = 8750
	DefaultCritical int64 = 3900
)

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// Thresholds classifies a product total
type Thresholds struct {
	Ideal    int64
	Critical int64
}

// DefaultThresholds returns {8750, 3900}
func DefaultThresholds() Thresholds {
	return Thresholds{Ideal: DefaultIdeal, Critical: DefaultCritical}
}

// Classify maps a total to a status. Both bounds are strict:
// a total equal to Ideal is LOW_STOCK, equal to Critical is CRITICAL.
func (t Thresholds) Classify(total int64) contracts.StockStatus {
	switch {
	case total > t.Ideal:
		return contracts.StockOK
	case total > t.Critical:
		return contracts.StockLow
	default:
		return contracts.StockCritical
	}
}

// CoerceQuantity converts a raw reported quantity to an integer.
// Floats and numeric strings truncate toward zero; anything else counts as 0.
func CoerceQuantity(v interface{}) int64 {
	switch q := v.(type) {
	case int:
		return int64(q)
	case int8:
		return int64(q)
	case int16:
		return int64(q)
	case int32:
		return int64(q)
	case int64:
		return q
	case uint:
		return clampUint(uint64(q))
	case uint8:
		return int64(q)
	case uint16:
		return int64(q)
	case uint32:
		return int64(q)
	case uint64:
		return clampUint(q)
	case float32:
		return truncateFloat(float64(q))
	case float64:
		return truncateFloat(q)
	case json.Number:
		return truncateString(q.String())
	case string:
		return truncateString(q)
	case json.RawMessage:
		return coerceRaw(q)
	default:
		return 0
	}
}

// coerceRaw decodes an undecoded JSON value as reported by the robot
func coerceRaw(raw json.RawMessage) int64 {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0
	}
	return CoerceQuantity(v)
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return 0
	}
	return int64(u)
}

func truncateFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return truncateDecimal(decimal.NewFromFloat(f))
}

func truncateString(s string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return truncateDecimal(d)
}

// truncateDecimal drops the fraction; values outside int64 count as 0
func truncateDecimal(d decimal.Decimal) int64 {
	d = d.Truncate(0)
	if d.GreaterThan(maxInt64) || d.LessThan(minInt64) {
		return 0
	}
	return d.IntPart()
}

// Aggregate sums coerced quantities per product id.
// Every product id that appears at least once is present in the result.
func Aggregate(events []contracts.ScanEvent) map[string]int64 {
	totals := make(map[string]int64)
	for _, e := range events {
		totals[e.ProductID] += CoerceQuantity(e.Quantity)
	}
	return totals
}
