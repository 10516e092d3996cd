package pension

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
)

var (
	amountReplacer = strings.NewReplacer("£", "", ",", "", " ", "", "\u00a0", "")
	countReplacer  = strings.NewReplacer(",", "", " ", "", "\u00a0", "")
)

// isMissing reports whether a cell carries no value. Spreadsheet exports
// sometimes render empty numeric cells as "nan".
func isMissing(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}

// ParseAssets converts a currency-formatted asset cell into pounds.
// Blank cells yield nil; text that is not a number after stripping the currency
// symbol and thousands separators is an error.
func ParseAssets(raw string) (*float64, error) {
	s := amountReplacer.Replace(strings.TrimSpace(raw))
	if isMissing(s) {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, eris.Wrapf(err, "pension: parse assets %q", raw)
	}
	v := d.InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, eris.Errorf("pension: parse assets %q: out of range", raw)
	}
	return &v, nil
}

// ParseMemberships converts a membership cell into a whole count.
// Anything that is not a non-negative number within int64 range yields nil.
func ParseMemberships(raw string) *int64 {
	s := countReplacer.Replace(strings.TrimSpace(raw))
	if isMissing(s) {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	r := d.RoundBank(0)
	if r.IsNegative() || !r.BigInt().IsInt64() {
		return nil
	}
	n := r.IntPart()
	return &n
}
