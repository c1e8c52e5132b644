// Package numeric normalizes locale-formatted decimal input.
//
// Clerks type amounts the Indonesian way (comma as decimal marker) and
// paste values from spreadsheets and chat messages, so raw input arrives
// with stray letters, thousand separators, and duplicated commas. Clean
// reduces such input to a canonical "digits,comma" form and Parse turns
// it into a decimal. Both are pure functions.
package numeric

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// maxFractionDigits caps digits after the decimal comma. Pump meters
// report three decimals; anything longer is paste noise.
const maxFractionDigits = 3

// Clean reduces raw text to a canonical non-negative decimal string
// using a comma as the decimal marker. It is idempotent:
// Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteByte(',')
		}
		// Letters, signs, spaces, currency symbols: dropped.
	}

	s := b.String()

	// Keep only the first comma group; extra commas are separators or typos.
	parts := strings.SplitN(s, ",", 2)
	if len(parts) == 1 {
		return parts[0]
	}

	intPart := parts[0]
	fracPart := strings.ReplaceAll(parts[1], ",", "")
	if len(fracPart) > maxFractionDigits {
		fracPart = fracPart[:maxFractionDigits]
	}
	if fracPart == "" {
		return intPart
	}
	return intPart + "," + fracPart
}

// Parse cleans raw input and parses it as a decimal. Unparseable or
// negative input yields zero rather than an error: a garbled amount
// field must not reject a whole submission on its own.
func Parse(raw string) decimal.Decimal {
	s := strings.ReplaceAll(Clean(raw), ",", ".")
	if s == "" || s == "." {
		return decimal.Zero
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Amount is a decimal that unmarshals from either a JSON number or a
// locale-formatted string. Clients normally submit plain numbers, but
// the server re-coerces string input through the same normalizer so
// client-side cleaning is never trusted to have happened.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		a.Decimal = decimal.Zero
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		a.Decimal = Parse(raw)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
