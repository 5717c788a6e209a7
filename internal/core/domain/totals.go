package domain

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// DocumentTotals is the computed money breakdown for a quote or invoice.
type DocumentTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATTotal       decimal.Decimal `json:"vatTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
}

// ComputeTotals calculates the totals for a set of line items with a
// document-level percentage discount. It is deterministic given the same
// inputs and keeps full decimal precision throughout; rounding to a minor
// unit happens only at display time.
//
// VAT is apportioned across the whole document by the discounted fraction of
// the subtotal (vatTotal * (subtotal - discount) / subtotal), not discounted
// per line. When the subtotal is zero the apportioned VAT is zero.
func ComputeTotals(items []LineItem, discountPercent decimal.Decimal) DocumentTotals {
	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	for _, item := range items {
		line := item.Quantity.Mul(item.UnitPrice)
		subtotal = subtotal.Add(line)
		vatTotal = vatTotal.Add(line.Mul(item.VATPercent).Div(oneHundred))
	}

	discountAmount := subtotal.Mul(discountPercent).Div(oneHundred)

	apportionedVAT := decimal.Zero
	if !subtotal.IsZero() {
		apportionedVAT = vatTotal.Mul(subtotal.Sub(discountAmount)).Div(subtotal)
	}

	return DocumentTotals{
		Subtotal:       subtotal,
		VATTotal:       vatTotal,
		DiscountAmount: discountAmount,
		GrandTotal:     subtotal.Sub(discountAmount).Add(apportionedVAT),
	}
}
