package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceOrZero converts v to a decimal, treating anything missing or
// unparseable as zero. It backs totals math only, where a half-filled draft
// must still produce totals.
func CoerceOrZero(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case Lenient:
		return n.Decimal
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case float32:
		return CoerceOrZero(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case json.Number:
		return CoerceOrZero(string(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// Lenient is a JSON number that never fails to decode. Strings holding
// numbers are accepted; any other value decodes as zero.
type Lenient struct {
	decimal.Decimal
}

// LenientOf wraps d.
func LenientOf(d decimal.Decimal) Lenient {
	return Lenient{Decimal: d}
}

func (l *Lenient) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		l.Decimal = decimal.Zero
		return nil
	}
	l.Decimal = CoerceOrZero(raw)
	return nil
}
