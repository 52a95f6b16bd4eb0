package payment

import (
	"fmt"
	"strings"
)

// PaymentScheme identifies a payment rail. The set is closed; any value
// outside the declared constants is unsupported.
type PaymentScheme int

const (
	FasterPayments PaymentScheme = iota
	Bacs
	Chaps
)

// SupportedSchemes lists every scheme in declaration order.
var SupportedSchemes = []PaymentScheme{FasterPayments, Bacs, Chaps}

// Valid reports whether s is one of the declared schemes.
func (s PaymentScheme) Valid() bool {
	return s >= FasterPayments && s <= Chaps
}

func (s PaymentScheme) String() string {
	switch s {
	case FasterPayments:
		return "FasterPayments"
	case Bacs:
		return "Bacs"
	case Chaps:
		return "Chaps"
	default:
		return fmt.Sprintf("Unsupported(%d)", int(s))
	}
}

// ParseScheme parses a scheme name case-insensitively.
func ParseScheme(name string) (PaymentScheme, error) {
	for _, s := range SupportedSchemes {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown payment scheme %q", name)
}

// AllowedSchemes is the capability bitset of an account.
type AllowedSchemes uint8

// AllowedSchemesOf builds a bitset from the given schemes.
// Unsupported schemes are ignored.
func AllowedSchemesOf(schemes ...PaymentScheme) AllowedSchemes {
	var a AllowedSchemes
	for _, s := range schemes {
		a = a.With(s)
	}
	return a
}

// Has reports whether the bitset allows scheme s.
func (a AllowedSchemes) Has(s PaymentScheme) bool {
	if !s.Valid() {
		return false
	}
	return a&(1<<uint(s)) != 0
}

// With returns a copy of a that also allows s.
func (a AllowedSchemes) With(s PaymentScheme) AllowedSchemes {
	if !s.Valid() {
		return a
	}
	return a | 1<<uint(s)
}

// Schemes returns the allowed schemes in declaration order.
func (a AllowedSchemes) Schemes() []PaymentScheme {
	var out []PaymentScheme
	for _, s := range SupportedSchemes {
		if a.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

func (a AllowedSchemes) String() string {
	schemes := a.Schemes()
	if len(schemes) == 0 {
		return "none"
	}
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.String()
	}
	return strings.Join(names, "|")
}
