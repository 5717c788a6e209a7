package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tradeflowhq/tradeflow_backend/internal/core/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name            string
		items           []domain.LineItem
		discountPercent decimal.Decimal
		wantSubtotal    string
		wantVAT         string
		wantDiscount    string
		wantGrand       string
	}{
		{
			name: "two units with discount apportions vat",
			items: []domain.LineItem{
				{Description: "Boiler service", Quantity: dec("2"), UnitPrice: dec("50"), VATPercent: dec("20")},
			},
			discountPercent: dec("10"),
			wantSubtotal:    "100",
			wantVAT:         "20",
			wantDiscount:    "10",
			wantGrand:       "108",
		},
		{
			name:            "empty document is all zeroes",
			items:           nil,
			discountPercent: decimal.Zero,
			wantSubtotal:    "0",
			wantVAT:         "0",
			wantDiscount:    "0",
			wantGrand:       "0",
		},
		{
			name: "mixed vat rates without discount",
			items: []domain.LineItem{
				{Quantity: dec("1"), UnitPrice: dec("200"), VATPercent: dec("20")},
				{Quantity: dec("3"), UnitPrice: dec("10"), VATPercent: dec("5")},
			},
			discountPercent: decimal.Zero,
			wantSubtotal:    "230",
			wantVAT:         "41.5",
			wantDiscount:    "0",
			wantGrand:       "271.5",
		},
		{
			name: "full discount zeroes the grand total",
			items: []domain.LineItem{
				{Quantity: dec("1"), UnitPrice: dec("80"), VATPercent: dec("20")},
			},
			discountPercent: dec("100"),
			wantSubtotal:    "80",
			wantVAT:         "16",
			wantDiscount:    "80",
			wantGrand:       "0",
		},
		{
			name: "fractional quantities keep precision",
			items: []domain.LineItem{
				{Quantity: dec("1.5"), UnitPrice: dec("33.40"), VATPercent: dec("20")},
			},
			discountPercent: decimal.Zero,
			wantSubtotal:    "50.1",
			wantVAT:         "10.02",
			wantDiscount:    "0",
			wantGrand:       "60.12",
		},
		{
			name: "zero-price items do not divide by zero",
			items: []domain.LineItem{
				{Quantity: dec("5"), UnitPrice: dec("0"), VATPercent: dec("20")},
			},
			discountPercent: dec("50"),
			wantSubtotal:    "0",
			wantVAT:         "0",
			wantDiscount:    "0",
			wantGrand:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeTotals(tt.items, tt.discountPercent)
			assert.True(t, got.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal: got %s", got.Subtotal)
			assert.True(t, got.VATTotal.Equal(dec(tt.wantVAT)), "vatTotal: got %s", got.VATTotal)
			assert.True(t, got.DiscountAmount.Equal(dec(tt.wantDiscount)), "discountAmount: got %s", got.DiscountAmount)
			assert.True(t, got.GrandTotal.Equal(dec(tt.wantGrand)), "grandTotal: got %s", got.GrandTotal)
		})
	}
}

func TestComputeTotalsIsDeterministic(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: dec("3"), UnitPrice: dec("19.99"), VATPercent: dec("20")},
		{Quantity: dec("1"), UnitPrice: dec("45"), VATPercent: dec("5")},
	}
	first := domain.ComputeTotals(items, dec("12.5"))
	second := domain.ComputeTotals(items, dec("12.5"))
	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.VATTotal.Equal(second.VATTotal))
}
