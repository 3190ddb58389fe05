// Package pricing turns cart lines into order totals and decides which
// pincodes the courier network delivers to.
package pricing

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"rapidxcel/internal/domain"
)

const (
	BaseShippingFee = 50.0
	PerUnitRate     = 10.0
	currencySymbol  = "₹"
)

// DefaultPincodes is the delivery allow-list.
var DefaultPincodes = []string{"600001", "600002", "600003"}

type Totals struct {
	GoodsTotal   float64 `json:"total_cost"`
	ShippingCost float64 `json:"shipping_cost"`
	GrandTotal   float64 `json:"grand_total"`
	Units        int     `json:"units"`
}

type Calculator struct {
	BaseFee     float64
	PerUnitRate float64
	pincodes    map[string]struct{}
}

func NewCalculator(baseFee, perUnit float64, pincodes []string) Calculator {
	set := make(map[string]struct{}, len(pincodes))
	for _, p := range pincodes {
		set[p] = struct{}{}
	}
	return Calculator{BaseFee: baseFee, PerUnitRate: perUnit, pincodes: set}
}

var Default = NewCalculator(BaseShippingFee, PerUnitRate, DefaultPincodes)

// ComputeTotals prices a cart. Shipping weight is approximated by the number
// of units, not the stock weight.
func (c Calculator) ComputeTotals(lines []domain.CartLine) Totals {
	var goods float64
	units := 0
	for _, l := range lines {
		goods += float64(l.Quantity) * l.UnitPrice
		units += l.Quantity
	}
	goods = Round(goods)
	shipping := Round(c.BaseFee + c.PerUnitRate*float64(units))
	return Totals{GoodsTotal: goods, ShippingCost: shipping, GrandTotal: goods + shipping, Units: units}
}

func (c Calculator) IsServiceable(pincode string) bool {
	_, ok := c.pincodes[pincode]
	return ok
}

// Pincodes returns the allow-list, sorted.
func (c Calculator) Pincodes() []string {
	out := make([]string, 0, len(c.pincodes))
	for p := range c.pincodes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func ComputeTotals(lines []domain.CartLine) Totals { return Default.ComputeTotals(lines) }

func IsServiceable(pincode string) bool { return Default.IsServiceable(pincode) }

// Round rounds to the nearest paisa.
func Round(v float64) float64 { return math.Round(v*100) / 100 }

// FormatINR renders an amount with Indian digit grouping: ₹12,34,567.50.
func FormatINR(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if len(intPart) > 3 {
		head, tail := intPart[:len(intPart)-3], intPart[len(intPart)-3:]
		lead := len(head) % 2
		if lead > 0 {
			b.WriteString(head[:lead])
		}
		for i := lead; i < len(head); i += 2 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(head[i : i+2])
		}
		b.WriteByte(',')
		b.WriteString(tail)
	} else {
		b.WriteString(intPart)
	}

	out := currencySymbol + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
