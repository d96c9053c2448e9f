package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DefaultLocale is used when a locale tag is empty or unknown
const DefaultLocale = "en-NG"

// Locale describes how an amount is rendered for display
type Locale struct {
	Symbol      string
	Thousands   string
	Decimal     string
	SymbolAfter bool
}

var locales = map[string]Locale{
	"en-NG": {Symbol: "₦", Thousands: ",", Decimal: "."},
	"en-US": {Symbol: "$", Thousands: ",", Decimal: "."},
	"en-GB": {Symbol: "£", Thousands: ",", Decimal: "."},
	"de-DE": {Symbol: "€", Thousands: ".", Decimal: ",", SymbolAfter: true},
	"fr-FR": {Symbol: "€", Thousands: "\u202f", Decimal: ",", SymbolAfter: true},
}

// LookupLocale returns the locale for tag, falling back to DefaultLocale
func LookupLocale(tag string) Locale {
	if l, ok := locales[tag]; ok {
		return l
	}
	return locales[DefaultLocale]
}

// FormatCurrency renders amount with two fraction digits, rounding half away from zero
func FormatCurrency(amount decimal.Decimal, tag string) string {
	locale := LookupLocale(tag)

	fixed := amount.Round(2).StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	number := groupThousands(intPart, locale.Thousands) + locale.Decimal + fracPart

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	if locale.SymbolAfter {
		b.WriteString(number)
		b.WriteString(" ")
		b.WriteString(locale.Symbol)
	} else {
		b.WriteString(locale.Symbol)
		b.WriteString(number)
	}
	return b.String()
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
