// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package redactors rewrites a text with every finding replaced according to a
// redaction strategy.
package redactors

import (
	"fmt"
	"sort"
	"strings"

	"shape-scan/internal/detector"
	"shape-scan/internal/patterns"
	"shape-scan/internal/suppressions"
)

// RedactionStrategy defines the type of redaction to apply
type RedactionStrategy int

const (
	// RedactionSimple replaces each finding with a category placeholder
	RedactionSimple RedactionStrategy = iota
	// RedactionFormatPreserving masks letters and digits and keeps punctuation and length
	RedactionFormatPreserving
	// RedactionHash replaces each finding with a short hash of its normalized value
	RedactionHash
)

// String returns the string representation of the redaction strategy
func (rs RedactionStrategy) String() string {
	switch rs {
	case RedactionSimple:
		return "simple"
	case RedactionFormatPreserving:
		return "format_preserving"
	case RedactionHash:
		return "hash"
	default:
		return "unknown"
	}
}

// ParseRedactionStrategy converts a name to a RedactionStrategy
func ParseRedactionStrategy(s string) (RedactionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple":
		return RedactionSimple, nil
	case "format_preserving", "format-preserving":
		return RedactionFormatPreserving, nil
	case "hash":
		return RedactionHash, nil
	default:
		return RedactionSimple, fmt.Errorf("unknown redaction strategy %q (available: simple, format_preserving, hash)", s)
	}
}

// Redaction records one replaced span of the original text
type Redaction struct {
	Category    string `json:"category"`
	Rule        string `json:"rule"`
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	Replacement string `json:"replacement"`
}

// RedactionResult contains the rewritten text and what was replaced
type RedactionResult struct {
	Text       string
	Strategy   RedactionStrategy
	Redactions []Redaction

	// Skipped counts matches that overlapped an earlier, longer one
	Skipped int
}

// RedactText replaces every match in text. Matches may come from any rule in any
// order; where spans overlap the one starting first wins, and the longer one on a tie.
func RedactText(text string, matches []detector.Match, strategy RedactionStrategy) *RedactionResult {
	spans := make([]detector.Match, 0, len(matches))
	for _, m := range matches {
		if m.Offset >= 0 && m.Text != "" && m.Offset+len(m.Text) <= len(text) {
			spans = append(spans, m)
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Offset != spans[j].Offset {
			return spans[i].Offset < spans[j].Offset
		}
		return len(spans[i].Text) > len(spans[j].Text)
	})

	result := &RedactionResult{Strategy: strategy, Redactions: []Redaction{}}
	var b strings.Builder
	b.Grow(len(text))

	pos := 0
	for _, m := range spans {
		if m.Offset < pos {
			result.Skipped++
			continue
		}
		replacement := replace(m, strategy)
		b.WriteString(text[pos:m.Offset])
		b.WriteString(replacement)
		pos = m.Offset + len(m.Text)

		result.Redactions = append(result.Redactions, Redaction{
			Category:    m.Category,
			Rule:        m.Rule,
			Offset:      m.Offset,
			Length:      len(m.Text),
			Replacement: replacement,
		})
	}
	b.WriteString(text[pos:])

	result.Text = b.String()
	return result
}

func replace(m detector.Match, strategy RedactionStrategy) string {
	switch strategy {
	case RedactionFormatPreserving:
		return preserveFormat(m.Category, m.Text)
	case RedactionHash:
		return fmt.Sprintf("[%s:%s]", label(m.Category), findingHash(m.Category, m.Text)[:16])
	default:
		return "[" + label(m.Category) + "-REDACTED]"
	}
}

var labels = map[string]string{
	patterns.CategoryEmails:          "EMAIL",
	patterns.CategoryURLs:            "URL",
	patterns.CategoryPhones:          "PHONE",
	patterns.CategoryCreditCards:     "CREDIT-CARD",
	patterns.CategoryTimes:           "TIME",
	patterns.CategoryHTMLTags:        "HTML-TAG",
	patterns.CategoryHashtags:        "HASHTAG",
	patterns.CategoryCurrencyDollars: "AMOUNT",
}

func label(category string) string {
	if l, ok := labels[category]; ok {
		return l
	}
	return strings.ToUpper(strings.ReplaceAll(category, "_", "-"))
}

// findingHash hashes the normalized value, so the prefix matches the hash_prefix of
// a suppression rule for the same finding.
func findingHash(category, raw string) string {
	value := raw
	if normalize := patterns.CategoryNormalizer(category); normalize != nil {
		if v, ok := normalize(raw); ok {
			value = v
		}
	}
	return suppressions.FindingHash(category, value)
}

// preserveFormat masks letters as x/X and digits as 0, leaving everything else. Card
// numbers keep their last four digits.
func preserveFormat(category, s string) string {
	keep := 0
	if category == patterns.CategoryCreditCards {
		keep = 4
	}

	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	seen := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seen++
			if seen > digits-keep {
				b.WriteRune(r)
			} else {
				b.WriteByte('0')
			}
		case r >= 'a' && r <= 'z':
			b.WriteByte('x')
		case r >= 'A' && r <= 'Z':
			b.WriteByte('X')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
