package barcode

import (
	"fmt"
	"strconv"
	"strings"
)

var referenceWeights = [...]int{7, 3, 1}

// nationalCheckDigit computes the Finnish reference check digit: digits are
// weighted 7, 3, 1 from the right and the check digit tops the sum up to the
// next multiple of ten.
func nationalCheckDigit(base string) int {
	sum := 0
	for i := 0; i < len(base); i++ {
		digit := int(base[len(base)-1-i] - '0')
		sum += digit * referenceWeights[i%len(referenceWeights)]
	}
	return (10 - sum%10) % 10
}

// NationalReference appends the check digit to a 3-19 digit base, for
// example an invoice number.
func NationalReference(base string) (string, error) {
	base = strings.TrimLeft(normalize(base), "0")
	if len(base) < 3 || len(base) > 19 || !isDigits(base) {
		return "", NewValidationError("reference", base, "reference base must be 3-19 digits")
	}
	return base + strconv.Itoa(nationalCheckDigit(base)), nil
}

// mod97 returns the remainder of a long numeric string divided by 97.
func mod97(digits string) int {
	rem := 0
	for i := 0; i < len(digits); i++ {
		rem = (rem*10 + int(digits[i]-'0')) % 97
	}
	return rem
}

// "RF" with letters mapped to numbers (R=27, F=15) as ISO 11649 requires.
const rfLetters = "2715"

// RFReference converts a national reference to an ISO 11649 creditor
// reference.
func RFReference(national string) (string, error) {
	national = normalize(national)
	if national == "" || len(national) > 21 || !isDigits(national) {
		return "", NewValidationError("reference", national, "national reference must be 1-21 digits")
	}
	check := 98 - mod97(national+rfLetters+"00")
	return fmt.Sprintf("RF%02d%s", check, national), nil
}

// ValidateReference checks the check digits of a national or RF reference.
func ValidateReference(reference string) error {
	ref := normalize(reference)
	if ref == "" {
		return NewValidationError("reference", reference, "reference is required")
	}

	if strings.HasPrefix(ref, "RF") {
		body := ref[2:]
		if len(body) < 3 || len(body) > 23 || !isDigits(body) {
			return NewValidationError("reference", reference, "malformed RF reference")
		}
		if mod97(body[2:]+rfLetters+body[:2]) != 1 {
			return NewValidationError("reference", reference, "RF checksum does not match")
		}
		return nil
	}

	if len(ref) < 4 || len(ref) > nationalRefLen || !isDigits(ref) {
		return NewValidationError("reference", reference, "national reference must be 4-20 digits")
	}
	base, check := ref[:len(ref)-1], int(ref[len(ref)-1]-'0')
	if nationalCheckDigit(strings.TrimLeft(base, "0")) != check {
		return NewValidationError("reference", reference, "reference check digit does not match")
	}
	return nil
}
