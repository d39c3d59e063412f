// Package core holds the domain entities shared by the API clients,
// the report derivations, and the CLI.
//
// This file contains currency display helpers. Amounts travel on the
// wire as plain decimal numbers; formatting is purely a rendering
// concern.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// zeroDecimalCurrencies lists ISO codes rendered without fraction digits.
var zeroDecimalCurrencies = map[string]bool{
	"VND": true,
	"JPY": true,
	"KRW": true,
}

var currencySymbols = map[string]string{
	"VND": "₫",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatAmount renders an amount for display, e.g. FormatAmount(125000, "VND")
// -> "125.000 ₫" and FormatAmount(12.5, "USD") -> "12,50 $".
// Thousands are dot-separated and decimals comma-separated, matching the
// it-IT locale the mobile client formatted with.
func FormatAmount(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	neg := amount < 0
	if neg {
		amount = -amount
	}

	var s string
	if zeroDecimalCurrencies[currency] {
		s = groupThousands(strconv.FormatInt(int64(amount+0.5), 10))
	} else {
		whole := int64(amount)
		cents := int64(amount*100+0.5) - whole*100
		if cents >= 100 {
			whole++
			cents -= 100
		}
		s = groupThousands(strconv.FormatInt(whole, 10)) + "," + fmt.Sprintf("%02d", cents)
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	if neg {
		return "-" + s + " " + symbol
	}
	return s + " " + symbol
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
