package http

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// prices are shown the way shoppers in Argentina read them: $12.500
var pricePrinter = message.NewPrinter(language.MustParse("es-AR"))

func formatPrice(amount float64) string {
	return pricePrinter.Sprintf("$%v", number.Decimal(amount, number.MaxFractionDigits(2)))
}
