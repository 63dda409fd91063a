// Package pricing computes cart and order line totals.
package pricing

import (
	"encoding/json"
	"strings"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/shopspring/decimal"
)

// UnitPrice returns the item price plus the selected variant delta and add-on prices.
// Unknown variant and add-on ids are ignored.
func UnitPrice(item models.Item, variantID *uint, addonIDs []uint) decimal.Decimal {
	unit := item.Price

	if variantID != nil {
		for _, v := range item.Variants {
			if v.ID == *variantID {
				unit = unit.Add(v.Delta)
				break
			}
		}
	}

	for _, id := range addonIDs {
		for _, a := range item.Addons {
			if a.ID == id {
				unit = unit.Add(a.Price)
				break
			}
		}
	}
	return unit
}

// ComputeLineTotal returns (price + variant delta + add-on prices) x quantity.
// A quantity below 1 counts as 1.
func ComputeLineTotal(item models.Item, variantID *uint, addonIDs []uint, quantity int) decimal.Decimal {
	return UnitPrice(item, variantID, addonIDs).Mul(decimal.NewFromInt(int64(ClampQuantity(quantity))))
}

// ClampQuantity enforces the minimum line quantity of 1
func ClampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// Coerce converts a price of unknown JSON shape into a decimal.
// Numbers, numeric strings and decimals are accepted; anything else is zero.
func Coerce(v any) decimal.Decimal {
	switch p := v.(type) {
	case decimal.Decimal:
		return p
	case *decimal.Decimal:
		if p == nil {
			return decimal.Zero
		}
		return *p
	case float64:
		return decimal.NewFromFloat(p)
	case float32:
		return decimal.NewFromFloat32(p)
	case int:
		return decimal.NewFromInt(int64(p))
	case int64:
		return decimal.NewFromInt(p)
	case uint:
		return decimal.NewFromInt(int64(p))
	case json.Number:
		return parse(p.String())
	case string:
		return parse(p)
	default:
		return decimal.Zero
	}
}

func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders a price with two fixed decimals for currency display
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
