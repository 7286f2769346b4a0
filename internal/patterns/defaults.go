// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"fmt"
	"sync"
)

// Category keys of the default registry
const (
	CategoryEmails          = "emails"
	CategoryURLs            = "urls"
	CategoryPhones          = "phones"
	CategoryCreditCards     = "credit_cards"
	CategoryTimes           = "times"
	CategoryHTMLTags        = "html_tags"
	CategoryHashtags        = "hashtags"
	CategoryCurrencyDollars = "currency_dollars"
)

// Rule names that differ from their category
const (
	RuleTimes24h = "times_24h"
	RuleTimes12h = "times_12h"
)

// DefaultCategories lists the default category keys in registry order
var DefaultCategories = []string{
	CategoryEmails,
	CategoryURLs,
	CategoryPhones,
	CategoryCreditCards,
	CategoryTimes,
	CategoryHTMLTags,
	CategoryHashtags,
	CategoryCurrencyDollars,
}

// DefaultDefinitions returns a fresh copy of the built-in rule table
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        CategoryEmails,
			Pattern:     `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
			Description: "Email addresses (local@domain.tld)",
			Examples:    []string{"jane.doe+news@example.co.uk"},
		},
		{
			Name:            CategoryURLs,
			Pattern:         `https?://[^\s<>"'()\[\]{}]+`,
			CaseInsensitive: true,
			Description:     "HTTP and HTTPS URLs",
			Examples:        []string{"https://example.com/path?q=1"},
		},
		{
			Name:        CategoryPhones,
			Pattern:     `(?:\+\d{1,3}[ .-]?|\b\d{1,3}[ .-])?(?:\(\d{2,4}\)|\d{2,4})[ .-]?\d{3,4}[ .-]?\d{4}`,
			Description: "Phone numbers with an optional +prefixed or bare country code and space, dot or dash separators",
			Examples:    []string{"+1 (555) 123-4567", "1 555 123 4567", "020.7946.0958"},
		},
		{
			Name:        CategoryCreditCards,
			Pattern:     `\b(?:\d{3,6}(?:[ -]\d{3,6})+|\d+)\b`,
			Description: "Payment card numbers of 13 to 19 digits, bare or in space or dash separated groups of 3 to 6 digits; a run is taken whole",
			Examples:    []string{"4111 1111 1111 1111", "3714-496353-98431"},
		},
		{
			Name:        RuleTimes24h,
			Category:    CategoryTimes,
			Pattern:     `\b(?:[01]\d|2[0-3]):[0-5]\d\b`,
			Description: "24-hour clock times (HH:MM)",
			Examples:    []string{"14:30"},
		},
		{
			Name:            RuleTimes12h,
			Category:        CategoryTimes,
			Pattern:         `\b(?:1[0-2]|0?[1-9]):[0-5]\d ?[AP]M\b`,
			CaseInsensitive: true,
			Description:     "12-hour clock times with AM/PM",
			Examples:        []string{"2:30 PM", "11:05am"},
		},
		{
			Name:        CategoryHTMLTags,
			Pattern:     `<(?:"[^"]*"|'[^']*'|[^'">])+>`,
			Description: "Markup tags, including quoted attribute values containing '>'",
			Examples:    []string{`<a href="x>y">`},
		},
		{
			Name:        CategoryHashtags,
			Pattern:     `#\w+`,
			Description: "Hashtags (# followed by letters, digits or underscore)",
			Examples:    []string{"#AI_2024"},
		},
		{
			Name:        CategoryCurrencyDollars,
			Pattern:     `\$ ?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?`,
			Description: "Dollar amounts with optional thousands separators and cents",
			Examples:    []string{"$1,234.50", "$ 99"},
		},
	}
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	reg, err := New(DefaultDefinitions())
	if err != nil {
		panic(fmt.Sprintf("patterns: built-in rule table is invalid: %v", err))
	}
	return reg
})

// Default returns the registry built from DefaultDefinitions
func Default() *Registry {
	return defaultRegistry()
}
