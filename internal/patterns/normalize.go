// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"strings"
)

// Digit bounds for a payment card candidate once separators are stripped
const (
	MinCardDigits = 13
	MaxCardDigits = 19
)

var categoryNormalizers = map[string]Normalizer{
	CategoryCreditCards: NormalizeCreditCard,
}

// CategoryNormalizer returns the built-in normalizer for a category, or nil when
// findings of that category are reported verbatim.
func CategoryNormalizer(category string) Normalizer {
	return categoryNormalizers[category]
}

// NormalizeCreditCard strips everything but digits and renders the card in its
// display grouping: 16 digits as 4-4-4-4, 15 digits as 4-6-5, other valid lengths bare.
func NormalizeCreditCard(match string) (string, bool) {
	digits := digitsOnly(match)
	if len(digits) < MinCardDigits || len(digits) > MaxCardDigits {
		return "", false
	}

	switch len(digits) {
	case 16:
		return group(digits, 4, 4, 4, 4), true
	case 15:
		return group(digits, 4, 6, 5), true
	default:
		return digits, true
	}
}

// WithLuhn wraps a card normalizer so candidates failing the Luhn checksum are dropped
func WithLuhn(next Normalizer) Normalizer {
	if next == nil {
		next = NormalizeCreditCard
	}
	return func(match string) (string, bool) {
		value, ok := next(match)
		if !ok {
			return "", false
		}
		if !LuhnValid(digitsOnly(value)) {
			return "", false
		}
		return value, true
	}
}

// LuhnValid implements the Luhn checksum over a digit string
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	alternate := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// group splits s into consecutive chunks of the given sizes joined by single spaces.
// The sizes must sum to len(s).
func group(s string, sizes ...int) string {
	var b strings.Builder
	b.Grow(len(s) + len(sizes))
	pos := 0
	for i, size := range sizes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[pos : pos+size])
		pos += size
	}
	return b.String()
}
