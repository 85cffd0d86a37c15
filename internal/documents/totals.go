package documents

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ComputeTotals sums the line items. The tax label names the rate only when
// every item shares it.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	var rates []decimal.Decimal

	for _, item := range items {
		subtotal = subtotal.Add(item.Net())
		tax = tax.Add(item.Tax())
		if !containsRate(rates, item.TaxRate) {
			rates = append(rates, item.TaxRate)
		}
	}

	label := "BTW"
	if len(rates) == 1 {
		label = "BTW " + formatPercent(rates[0])
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
		TaxLabel: label,
	}
}

func containsRate(rates []decimal.Decimal, rate decimal.Decimal) bool {
	for _, r := range rates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

func formatMoney(d decimal.Decimal) string {
	return "€ " + d.RoundBank(2).StringFixed(2)
}

func formatPercent(d decimal.Decimal) string {
	return d.RoundBank(0).StringFixed(0) + "%"
}

func formatDate(t time.Time) string {
	return t.Format("02-01-2006")
}

// Filename builds the suggested download name, e.g. factuur_Jan_de_Vries_20240305.pdf
func Filename(kind Kind, recipientName string, on time.Time) string {
	name := strings.ReplaceAll(strings.TrimSpace(recipientName), " ", "_")
	return kind.filePrefix() + "_" + name + "_" + on.Format("20060102") + ".pdf"
}

// combinedDescription joins the non-empty item descriptions with spaces
func combinedDescription(items []LineItem) string {
	var parts []string
	for _, item := range items {
		if d := strings.TrimSpace(item.Description); d != "" {
			parts = append(parts, d)
		}
	}
	if len(parts) == 0 {
		return "Geen omschrijving opgegeven"
	}
	return strings.Join(parts, " ")
}
