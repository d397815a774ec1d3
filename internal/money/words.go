package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = [20]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [10]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	crore    = 10_000_000
	lakh     = 100_000
	million  = 1_000_000
	thousand = 1_000
)

// ConvertNumberToWords spells an integer amount in English followed by the
// currency code and "Only", e.g. "One Lakh Fifty Thousand INR Only".
// INR groups by crore and lakh, other currencies by million and thousand.
// Zero is spelled "Zero" with no currency suffix.
func ConvertNumberToWords(amount int64, c Currency) string {
	if amount == 0 {
		return "Zero"
	}

	prefix := ""
	magnitude := uint64(amount)
	if amount < 0 {
		prefix = "Minus "
		// two's complement negation stays correct for math.MinInt64
		magnitude = uint64(-(amount + 1)) + 1
	}

	var words string
	if c == INR || !c.Valid() {
		words = spellIndian(magnitude)
	} else {
		words = spellInternational(magnitude)
	}

	code := c
	if !c.Valid() {
		code = DefaultCurrency
	}
	return prefix + strings.TrimSpace(words) + " " + string(code) + " Only"
}

// AmountInWords rounds amount to whole units the same way FormatCurrency does
// and spells it, so the words banner always agrees with the printed figure.
func AmountInWords(amount decimal.Decimal, c Currency) string {
	return ConvertNumberToWords(amount.Round(0).IntPart(), c)
}

func spellIndian(n uint64) string {
	var parts []string
	if n >= crore {
		parts = append(parts, spellIndian(n/crore)+" Crore")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, spellUnderThousand(n/lakh)+" Lakh")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, spellUnderThousand(n/thousand)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, spellUnderThousand(n))
	}
	return strings.Join(parts, " ")
}

func spellInternational(n uint64) string {
	var parts []string
	if n >= million {
		parts = append(parts, spellInternational(n/million)+" Million")
		n %= million
	}
	if n >= thousand {
		parts = append(parts, spellUnderThousand(n/thousand)+" Thousand")
		n %= thousand
	}
	if n > 0 {
		parts = append(parts, spellUnderThousand(n))
	}
	return strings.Join(parts, " ")
}

// spellUnderThousand handles 0-999. Zero spells as the empty string so that
// empty groups vanish from the output.
func spellUnderThousand(n uint64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		return strings.TrimSpace(tens[n/10] + " " + ones[n%10])
	default:
		return strings.TrimSpace(ones[n/100] + " Hundred " + spellUnderThousand(n%100))
	}
}
