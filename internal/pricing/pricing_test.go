package pricing

import (
	"encoding/json"
	"testing"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func burger() models.Item {
	return models.Item{
		ID:    1,
		Name:  "Burger",
		Price: decimal.NewFromInt(50),
		Variants: []models.Variant{
			{ID: 10, Name: "Large", Delta: decimal.NewFromInt(10)},
			{ID: 11, Name: "Kids", Delta: decimal.NewFromInt(-15)},
		},
		Addons: []models.Addon{
			{ID: 20, Name: "Cheese", Price: decimal.NewFromInt(5)},
			{ID: 21, Name: "Bacon", Price: decimal.NewFromInt(3)},
		},
	}
}

func TestComputeLineTotal(t *testing.T) {
	testCases := []struct {
		name      string
		variantID *uint
		addonIDs  []uint
		quantity  int
		expected  string
	}{
		{
			name:      "variant and two add-ons",
			variantID: uintPtr(10),
			addonIDs:  []uint{20, 21},
			quantity:  2,
			expected:  "136",
		},
		{
			name:     "base price only",
			quantity: 3,
			expected: "150",
		},
		{
			name:      "negative variant delta",
			variantID: uintPtr(11),
			quantity:  1,
			expected:  "35",
		},
		{
			name:      "unknown ids are ignored",
			variantID: uintPtr(99),
			addonIDs:  []uint{98, 20},
			quantity:  1,
			expected:  "55",
		},
		{
			name:     "quantity below one counts as one",
			quantity: 0,
			expected: "50",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			total := ComputeLineTotal(burger(), tt.variantID, tt.addonIDs, tt.quantity)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(total),
				"expected %s, got %s", tt.expected, total)
		})
	}
}

func TestComputeLineTotalIsDeterministic(t *testing.T) {
	item := burger()
	first := ComputeLineTotal(item, uintPtr(10), []uint{20}, 4)
	second := ComputeLineTotal(item, uintPtr(10), []uint{20}, 4)
	assert.True(t, first.Equal(second))
	assert.Equal(t, decimal.NewFromInt(50), item.Price, "item must not be mutated")
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "float", input: 12.5, expected: "12.5"},
		{name: "int", input: 7, expected: "7"},
		{name: "numeric string", input: " 9.90 ", expected: "9.9"},
		{name: "json number", input: json.Number("4.25"), expected: "4.25"},
		{name: "decimal", input: decimal.NewFromInt(3), expected: "3"},
		{name: "garbage string", input: "abc", expected: "0"},
		{name: "nil", input: nil, expected: "0"},
		{name: "bool", input: true, expected: "0"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.input)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "136.00", Format(decimal.NewFromInt(136)))
	assert.Equal(t, "9.90", Format(decimal.RequireFromString("9.9")))
	assert.Equal(t, "0.33", Format(decimal.RequireFromString("0.333")))
}
