// Package barcode builds the 54-digit Finnish virtual bank barcode
// (pankkiviivakoodi) printed on invoice payment slips.
//
// Version 4 carries a national reference, version 5 an RF creditor reference:
//
//	v4: 4 | IBAN 16 | euros 6 | cents 2 | 000 | reference 20 | YYMMDD
//	v5: 5 | IBAN 16 | euros 6 | cents 2 | RF checksum 2 + reference 21 | YYMMDD
package barcode

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// PayloadLength is the length of every virtual barcode.
	PayloadLength = 54

	ibanDigits      = 16
	nationalRefLen  = 20
	rfPayloadLen    = 23
	maxEuros        = 999999
	emptyAmount     = "00000000"
	emptyDueDate    = "000000"
	reservedField   = "000"
	versionNational = "4"
	versionRF       = "5"
)

var hundred = decimal.NewFromInt(100)

// Build encodes the payment details as a virtual barcode. Amount and due date
// are optional and encode as zeros when missing; the IBAN and reference are
// required.
//
// amount may be nil, a number, a numeric string or a decimal.Decimal. dueDate
// may be nil, a time.Time, or a "YYYY-MM-DD" or "YYYYMMDD" string.
func Build(iban string, amount any, reference string, dueDate any) (string, error) {
	account, err := ibanPart(iban)
	if err != nil {
		return "", err
	}
	euros, cents, err := amountParts(amount)
	if err != nil {
		return "", err
	}
	due := dueDatePart(dueDate)

	ref := normalize(reference)
	if ref == "" {
		return "", NewValidationError("reference", reference, "reference is required")
	}

	var b strings.Builder
	b.Grow(PayloadLength)

	if strings.HasPrefix(ref, "RF") {
		rf, err := rfPart(ref)
		if err != nil {
			return "", err
		}
		b.WriteString(versionRF)
		b.WriteString(account)
		b.WriteString(euros)
		b.WriteString(cents)
		b.WriteString(rf)
	} else {
		national, err := nationalPart(ref)
		if err != nil {
			return "", err
		}
		b.WriteString(versionNational)
		b.WriteString(account)
		b.WriteString(euros)
		b.WriteString(cents)
		b.WriteString(reservedField)
		b.WriteString(national)
	}
	b.WriteString(due)

	payload := b.String()
	if len(payload) != PayloadLength || !isDigits(payload) {
		return "", NewValidationError("barcode", payload, fmt.Sprintf("payload must be %d digits", PayloadLength))
	}
	return payload, nil
}

// normalize removes all whitespace and upper-cases s.
func normalize(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func ibanPart(iban string) (string, error) {
	normalized := normalize(iban)
	if normalized == "" {
		return "", NewValidationError("iban", iban, "iban is required")
	}
	if !strings.HasPrefix(normalized, "FI") {
		return "", NewValidationError("iban", iban, "only Finnish (FI) accounts are supported")
	}
	digits := normalized[2:]
	if len(digits) != ibanDigits || !isDigits(digits) {
		return "", NewValidationError("iban", iban, fmt.Sprintf("expected %d digits after FI", ibanDigits))
	}
	return digits, nil
}

// parseAmount is strict: anything present but not numeric is an error.
func parseAmount(amount any) (decimal.Decimal, bool, error) {
	switch v := amount.(type) {
	case nil:
		return decimal.Zero, false, nil
	case decimal.Decimal:
		return v, true, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false, nil
		}
		return *v, true, nil
	case float64:
		return decimal.NewFromFloat(v), true, nil
	case float32:
		return decimal.NewFromFloat32(v), true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case json.Number:
		return parseAmount(string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, NewValidationError("amount", amount, "amount is not a number")
		}
		return d, true, nil
	}
	return decimal.Zero, false, NewValidationError("amount", amount, fmt.Sprintf("unsupported amount type %T", amount))
}

func amountParts(amount any) (string, string, error) {
	value, present, err := parseAmount(amount)
	if err != nil {
		return "", "", err
	}
	if !present {
		return emptyAmount[:6], emptyAmount[6:], nil
	}
	if value.IsNegative() {
		return "", "", NewValidationError("amount", amount, "amount cannot be negative")
	}

	cents := value.Mul(hundred).Round(0).IntPart()
	euros := cents / 100
	if euros > maxEuros {
		return "", "", NewValidationError("amount", amount, "amount does not fit the barcode")
	}
	return fmt.Sprintf("%06d", euros), fmt.Sprintf("%02d", cents%100), nil
}

func dueDatePart(dueDate any) string {
	var t time.Time
	switch v := dueDate.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return emptyDueDate
		}
		t = *v
	case string:
		parsed, ok := parseDate(strings.TrimSpace(v))
		if !ok {
			return emptyDueDate
		}
		t = parsed
	default:
		return emptyDueDate
	}
	if t.IsZero() {
		return emptyDueDate
	}
	return t.Format("060102")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nationalPart(ref string) (string, error) {
	if !isDigits(ref) {
		return "", NewValidationError("reference", ref, "national reference must contain only digits")
	}
	if len(ref) > nationalRefLen {
		return "", NewValidationError("reference", ref, fmt.Sprintf("national reference is longer than %d digits", nationalRefLen))
	}
	return strings.Repeat("0", nationalRefLen-len(ref)) + ref, nil
}

func rfPart(ref string) (string, error) {
	rest := ref[2:]
	if len(rest) < 3 {
		return "", NewValidationError("reference", ref, "RF reference is too short")
	}
	checksum, digits := rest[:2], rest[2:]
	if !isDigits(checksum) {
		return "", NewValidationError("reference", ref, "RF checksum must be two digits")
	}
	if !isDigits(digits) {
		return "", NewValidationError("reference", ref, "RF reference must contain only digits after the checksum")
	}
	padding := rfPayloadLen - len(checksum) - len(digits)
	if padding < 0 {
		return "", NewValidationError("reference", ref, "RF reference is too long")
	}
	return checksum + strings.Repeat("0", padding) + digits, nil
}
