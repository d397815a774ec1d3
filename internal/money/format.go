package money

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// rupeePrefix is the house style for INR: the bare glyph followed by a space,
// instead of whatever a locale formatter would emit.
const rupeePrefix = "₹ "

var groupPrinter = message.NewPrinter(language.English)

// FormatCurrency renders amount rounded to whole units with the currency
// symbol. INR uses lakh grouping (1,50,000), every other currency uses
// thousands grouping (150,000). The output does not depend on the host locale.
func FormatCurrency(amount decimal.Decimal, c Currency) string {
	sign, digits := groupedDigits(amount, c)
	if c == INR || !c.Valid() {
		return sign + rupeePrefix + digits
	}
	return sign + c.Symbol() + digits
}

// FormatNumber is FormatCurrency without the symbol.
func FormatNumber(amount decimal.Decimal, c Currency) string {
	sign, digits := groupedDigits(amount, c)
	return sign + digits
}

func groupedDigits(amount decimal.Decimal, c Currency) (sign, digits string) {
	rounded := amount.Round(0)
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	if c == INR || !c.Valid() {
		return sign, groupIndian(rounded.String())
	}
	return sign, groupPrinter.Sprintf("%d", rounded.IntPart())
}

// groupIndian inserts separators into a run of digits: the last three digits
// form one group, everything before it is grouped in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, tail), ",")
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// FormatDate renders an ISO-style date as DD/MM/YYYY. Empty input yields an
// empty string; input that does not parse is returned as-is.
func FormatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return FormatTime(t)
		}
	}
	return iso
}

// FormatTime renders t as DD/MM/YYYY.
func FormatTime(t time.Time) string {
	return t.Format("02/01/2006")
}
