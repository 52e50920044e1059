// Package msisdn canonicalizes Kenyan subscriber numbers to E.164 form
// without the leading '+'. Every phone-number comparison in the system goes
// through Normalize so line lookups, audit subject keys, and mirror hashing
// inputs agree on a single form.
package msisdn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned (wrapped) for any input that does not reduce to a
// valid Kenyan mobile number.
var ErrInvalid = errors.New("invalid msisdn")

const countryCode = "254"

// Normalize converts a raw phone number to canonical 254XXXXXXXXX form.
//
//	07XXXXXXXX  -> 2547XXXXXXXX
//	01XXXXXXXX  -> 2541XXXXXXXX
//	+2547XXXXXXXX -> 2547XXXXXXXX
//
// Normalize is idempotent: feeding its output back in returns the same value.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("msisdn is required: %w", ErrInvalid)
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	m := b.String()

	// National trunk form: leading 0 followed by 9 digits.
	if strings.HasPrefix(m, "0") && len(m) == 10 {
		m = countryCode + m[1:]
	}

	if !strings.HasPrefix(m, countryCode) || len(m) != 12 {
		return "", fmt.Errorf("not a Kenyan phone number: %w", ErrInvalid)
	}

	if !strings.HasPrefix(m, "2547") && !strings.HasPrefix(m, "2541") {
		return "", fmt.Errorf("not a Kenyan mobile prefix: %w", ErrInvalid)
	}

	return m, nil
}
