// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the recognition rules used by the extraction engine.
//
// Rules are declared as a table of Definitions and compiled once into a Registry.
// A Registry is immutable and safe for concurrent use: Go's regexp.Regexp carries no
// scan cursor between calls, so every application of a rule starts at the beginning
// of the text it is given.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"shape-scan/internal/detector"
)

// Normalizer turns a trimmed raw match into the value that is reported.
// Returning false drops the candidate.
type Normalizer func(match string) (string, bool)

// Definition declares a single recognition rule
type Definition struct {
	Name            string     // Unique rule name (e.g. "times_12h")
	Category        string     // Result key the rule feeds; defaults to Name
	Pattern         string     // RE2 pattern; empty means the rule is absent
	CaseInsensitive bool       // Compile with the (?i) flag
	Normalize       Normalizer // Optional; defaults to the category normalizer
	Description     string     // Short human description used by help output
	Examples        []string   // Sample inputs used by help output
}

// Rule is a compiled Definition
type Rule struct {
	name        string
	category    string
	re          *regexp.Regexp
	normalize   Normalizer
	description string
	examples    []string
}

// Name returns the rule name
func (r *Rule) Name() string { return r.name }

// Category returns the category key the rule feeds
func (r *Rule) Category() string { return r.category }

// Description returns the human readable description of the rule
func (r *Rule) Description() string { return r.description }

// Examples returns sample inputs for the rule
func (r *Rule) Examples() []string { return append([]string(nil), r.examples...) }

// Present reports whether the rule has a pattern. Absent rules match nothing.
func (r *Rule) Present() bool { return r.re != nil }

// Pattern returns the compiled expression source, or "" for an absent rule
func (r *Rule) Pattern() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

// FindAll returns every non-overlapping leftmost-first match of the rule in text,
// scanning left to right. Matches are trimmed of surrounding whitespace and Offset
// points at the first byte of the trimmed text; matches that trim to nothing are
// skipped.
func (r *Rule) FindAll(text string) []detector.Match {
	if r.re == nil || text == "" {
		return nil
	}

	locs := r.re.FindAllStringIndex(text, -1)
	matches := make([]detector.Match, 0, len(locs))
	for _, loc := range locs {
		raw := text[loc[0]:loc[1]]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		matches = append(matches, detector.Match{
			Rule:     r.name,
			Category: r.category,
			Text:     trimmed,
			Offset:   loc[0] + lead,
		})
	}
	return matches
}

// Normalize applies the rule's normalizer to a trimmed match
func (r *Rule) Normalize(match string) (string, bool) {
	if r.normalize == nil {
		return match, true
	}
	return r.normalize(match)
}

// RuleError reports a definition that could not be turned into a rule
type RuleError struct {
	Rule     string
	Category string
	Err      error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("invalid rule %q for category %q: %v", e.Rule, e.Category, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

var (
	// ErrMissingName is returned for a definition without a rule name
	ErrMissingName = errors.New("rule name is required")
	// ErrDuplicateRule is returned when two definitions share a rule name
	ErrDuplicateRule = errors.New("duplicate rule name")
)

// Registry is an ordered, validated set of rules
type Registry struct {
	rules      []*Rule
	categories []string
}

// New compiles every definition. All definitions are validated before anything is
// returned; failures are joined so each offending rule is reported, and no registry
// is returned when any rule is invalid.
func New(defs []Definition) (*Registry, error) {
	reg := &Registry{}
	seenRules := make(map[string]bool, len(defs))
	seenCategories := make(map[string]bool, len(defs))
	var errs []error

	for _, def := range defs {
		category := def.Category
		if category == "" {
			category = def.Name
		}

		if strings.TrimSpace(def.Name) == "" {
			errs = append(errs, &RuleError{Rule: def.Name, Category: category, Err: ErrMissingName})
			continue
		}
		if seenRules[def.Name] {
			errs = append(errs, &RuleError{Rule: def.Name, Category: category, Err: ErrDuplicateRule})
			continue
		}
		seenRules[def.Name] = true

		rule := &Rule{
			name:        def.Name,
			category:    category,
			normalize:   def.Normalize,
			description: def.Description,
			examples:    append([]string(nil), def.Examples...),
		}
		if rule.normalize == nil {
			rule.normalize = CategoryNormalizer(category)
		}

		if def.Pattern != "" {
			source := def.Pattern
			if def.CaseInsensitive {
				source = "(?i)" + source
			}
			re, err := regexp.Compile(source)
			if err != nil {
				errs = append(errs, &RuleError{Rule: def.Name, Category: category, Err: err})
				continue
			}
			rule.re = re
		}

		reg.rules = append(reg.rules, rule)
		if !seenCategories[category] {
			seenCategories[category] = true
			reg.categories = append(reg.categories, category)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

// Rules returns the rules in declaration order
func (r *Registry) Rules() []*Rule {
	return append([]*Rule(nil), r.rules...)
}

// Categories returns the distinct category keys in first-declared order
func (r *Registry) Categories() []string {
	return append([]string(nil), r.categories...)
}

// Rule looks up a rule by name
func (r *Registry) Rule(name string) (*Rule, bool) {
	for _, rule := range r.rules {
		if rule.name == name {
			return rule, true
		}
	}
	return nil, false
}
