package projections

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"receitas/internal/domain/admin"
)

// DateTimeLayout is the pt-BR date and time display format.
const DateTimeLayout = "02/01/2006 15:04:05"

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// symbols holds display symbols for currencies the store actually sells in.
var symbols = map[string]string{
	"BRL": "R$",
	"USD": "US$",
	"EUR": "€",
	"GBP": "£",
}

// FormatCurrency renders an amount in cents for pt-BR readers, e.g. "R$ 1.234,56".
// An absent or non-finite amount is shown as zero; an absent currency as BRL.
// Unknown currency codes are shown as the upper-cased code.
func FormatCurrency(amountCents *float64, code string) string {
	cents := 0.0
	if amountCents != nil && !math.IsNaN(*amountCents) && !math.IsInf(*amountCents, 0) {
		cents = *amountCents
	}

	code = admin.NormalizeCurrency(code)
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + symbol + " " + ptBR.Sprint(number.Decimal(cents/100, number.Scale(2)))
}

// FormatDateTime renders an RFC 3339 timestamp in loc as "02/01/2006 15:04:05".
// Input that does not parse is returned unchanged. A nil loc means UTC.
func FormatDateTime(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return FormatTime(t, loc)
		}
	}
	return raw
}

// FormatTime renders t in loc using DateTimeLayout. A nil loc means UTC.
func FormatTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayout)
}

// FormatCount renders an optional server count, treating absent values as zero.
func FormatCount(n *float64) string {
	if n == nil || math.IsNaN(*n) || math.IsInf(*n, 0) {
		return "0"
	}
	return ptBR.Sprint(number.Decimal(*n, number.MaxFractionDigits(0)))
}
