// Package pricing computes checkout totals. Everything in here is a pure
// function over its inputs so the numbers shown on screen and the numbers
// written to the orders table come from the same arithmetic.
package pricing

import (
	"github.com/shopspring/decimal"

	"bijuli-pos/internal/cart"
)

// Discount rates. VIP and voucher are applied in sequence, not summed:
// the voucher percentage comes off the VIP-reduced amount. That ordering is
// load-bearing for receipt compatibility with the old tills.
type Discounts struct {
	VIPRate     decimal.Decimal `json:"vip_rate"`
	VoucherRate decimal.Decimal `json:"voucher_rate"`
	VoucherCode string          `json:"voucher_code"`
}

// Totals is the full price breakdown for a cart. Values are unrounded;
// call Round before persisting or displaying.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	VIPDiscount     decimal.Decimal `json:"vip_discount"`
	VoucherDiscount decimal.Decimal `json:"voucher_discount"`
	FinalTotal      decimal.Decimal `json:"final_total"`
}

// Known voucher codes. A code is a fixed lookup, nothing dynamic.
var voucherRates = map[string]decimal.Decimal{
	"ais10": decimal.NewFromFloat(0.10),
}

// Member discount rates by customer type. Only VIP carries a rate today;
// the table exists so the next tier is a one-line change.
var memberRates = map[string]decimal.Decimal{
	"VIP": decimal.NewFromFloat(0.05),
}

// GST is 15% inclusive, so the tax component of a total is total * 3/23.
var (
	gstNumerator   = decimal.NewFromInt(3)
	gstDenominator = decimal.NewFromInt(23)

	pointsPerDollar = decimal.NewFromInt(10) // 1 point per $10 spent
)

// ComputeTotals prices a cart under the given discounts:
//
//	subtotal    = sum(unit_price * quantity)
//	after VIP   = subtotal - subtotal * vip_rate
//	final total = after VIP - after VIP * voucher_rate
//
// No rounding happens here - rounding mid-computation compounds cent drift
// across the two discount steps.
func ComputeTotals(c cart.Cart, d Discounts) Totals {
	subtotal := c.Subtotal()
	vipAmount := subtotal.Mul(d.VIPRate)
	afterVIP := subtotal.Sub(vipAmount)
	voucherAmount := afterVIP.Mul(d.VoucherRate)

	return Totals{
		Subtotal:        subtotal,
		VIPDiscount:     vipAmount,
		VoucherDiscount: voucherAmount,
		FinalTotal:      afterVIP.Sub(voucherAmount),
	}
}

// Round snaps every monetary field to 2 decimal places. Use at the
// persistence/display boundary only.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal:        t.Subtotal.Round(2),
		VIPDiscount:     t.VIPDiscount.Round(2),
		VoucherDiscount: t.VoucherDiscount.Round(2),
		FinalTotal:      t.FinalTotal.Round(2),
	}
}

// ResolveVoucher maps a voucher code to its rate. An empty code is simply
// "no voucher" (rate 0, valid). An unknown non-empty code is invalid and
// also rate 0 - invalid codes never silently discount.
func ResolveVoucher(code string) (rate decimal.Decimal, valid bool) {
	if code == "" {
		return decimal.Zero, true
	}
	if r, ok := voucherRates[code]; ok {
		return r, true
	}
	return decimal.Zero, false
}

// RateForCustomerType returns the membership discount for a customer type,
// zero for types without one.
func RateForCustomerType(customerType string) decimal.Decimal {
	if r, ok := memberRates[customerType]; ok {
		return r
	}
	return decimal.Zero
}

// GSTComponent backs the 15% GST out of a tax-inclusive total.
func GSTComponent(inclusiveTotal decimal.Decimal) decimal.Decimal {
	return inclusiveTotal.Mul(gstNumerator).Div(gstDenominator)
}

// PointsEarned is the loyalty award for a final total: 1 point per full $10.
func PointsEarned(finalTotal decimal.Decimal) int {
	return int(finalTotal.Div(pointsPerDollar).Floor().IntPart())
}
