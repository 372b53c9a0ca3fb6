package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders an amount in U.S. dollars, e.g. 123456.789 -> "$123,456.79"
func FormatPrice(price float64) string {
	if price < 0 {
		return "-" + usdPrinter.Sprintf("$%.2f", math.Abs(price))
	}
	return usdPrinter.Sprintf("$%.2f", price)
}

// PriceToCents converts a decimal price to the smallest currency unit
func PriceToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}
