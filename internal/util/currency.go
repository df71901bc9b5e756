package util

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount the way the UI shows rupiah: "Rp 1.500.000".
// Amounts stay decimal everywhere else; this runs only at the response
// boundary. IDR has no sub-unit, so fractions are rounded away here.
func FormatIDR(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	return idPrinter.Sprintf("Rp %d", whole)
}
