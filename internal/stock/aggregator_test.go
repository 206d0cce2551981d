package stock

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/warehouse/internal/contracts"
)

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
	}{
		{"int", 42, 42},
		{"negative int64", int64(-7), -7},
		{"uint8", uint8(9), 9},
		{"float truncates toward zero", 12.9, 12},
		{"negative float truncates toward zero", -12.9, -12},
		{"float32", float32(3.5), 3},
		{"json number", json.Number("15.99"), 15},
		{"numeric string", "100", 100},
		{"decimal string", "7.8", 7},
		{"negative decimal string", "-7.8", -7},
		{"padded string", "  25 ", 25},
		{"exponent string", "1e3", 1000},
		{"garbage string", "twelve", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"object", map[string]interface{}{"n": 1}, 0},
		{"slice", []interface{}{1, 2}, 0},
		{"NaN", math.NaN(), 0},
		{"Inf", math.Inf(1), 0},
		{"huge uint", uint64(math.MaxUint64), 0},
		{"overflowing string", "99999999999999999999999", 0},
		{"raw json number", json.RawMessage(`12.7`), 12},
		{"raw json string", json.RawMessage(`"40"`), 40},
		{"raw json null", json.RawMessage(`null`), 0},
		{"raw json object", json.RawMessage(`{"n":1}`), 0},
		{"raw garbage", json.RawMessage(`{`), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceQuantity(tt.in))
		})
	}
}

func TestClassify_Boundaries(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		total int64
		want  contracts.StockStatus
	}{
		{8751, contracts.StockOK},
		{8750, contracts.StockLow},
		{3901, contracts.StockLow},
		{3900, contracts.StockCritical},
		{0, contracts.StockCritical},
		{-5, contracts.StockCritical},
		{1_000_000, contracts.StockOK},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Classify(tt.total), "total=%d", tt.total)
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	th := Thresholds{Ideal: 100, Critical: 10}
	assert.Equal(t, contracts.StockOK, th.Classify(101))
	assert.Equal(t, contracts.StockLow, th.Classify(100))
	assert.Equal(t, contracts.StockCritical, th.Classify(10))
}

func TestAggregate(t *testing.T) {
	events := []contracts.ScanEvent{
		{ProductID: "P1", Quantity: float64(10)},
		{ProductID: "P1", Quantity: "5.9"},
		{ProductID: "P1", Quantity: "broken"},
		{ProductID: "P2", Quantity: nil},
		{ProductID: "P3", Quantity: -2.7},
		{ProductID: "P3", Quantity: 4},
	}

	totals := Aggregate(events)

	assert.Equal(t, map[string]int64{
		"P1": 15,
		"P2": 0, // seen, so present even with nothing usable
		"P3": 2,
	}, totals)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
