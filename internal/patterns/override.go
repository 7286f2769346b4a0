// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"sort"
)

// Override changes or adds a rule by name
type Override struct {
	Pattern         string
	Category        string
	CaseInsensitive *bool
	Disabled        bool
}

// Apply returns defs with the overrides merged in. Overrides for known rule names
// replace the pattern, category or flags of that rule; a disabled rule keeps its
// category but matches nothing. Overrides for unknown names are appended as new rules
// in name order.
func Apply(defs []Definition, overrides map[string]Override) []Definition {
	out := make([]Definition, len(defs))
	copy(out, defs)
	if len(overrides) == 0 {
		return out
	}

	known := make(map[string]int, len(out))
	for i, def := range out {
		known[def.Name] = i
	}

	for i := range out {
		ov, ok := overrides[out[i].Name]
		if !ok {
			continue
		}
		out[i] = merge(out[i], ov)
	}

	var added []string
	for name := range overrides {
		if _, ok := known[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(added)

	for _, name := range added {
		out = append(out, merge(Definition{Name: name}, overrides[name]))
	}
	return out
}

func merge(def Definition, ov Override) Definition {
	if ov.Pattern != "" {
		def.Pattern = ov.Pattern
	}
	if ov.Category != "" && ov.Category != def.Category {
		def.Category = ov.Category
		// a rule moved to another category picks up that category's normalizer
		def.Normalize = nil
	}
	if ov.CaseInsensitive != nil {
		def.CaseInsensitive = *ov.CaseInsensitive
	}
	if ov.Disabled {
		def.Pattern = ""
	}
	return def
}

// Select keeps only the definitions whose category is listed
func Select(defs []Definition, categories []string) []Definition {
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}

	var out []Definition
	for _, def := range defs {
		category := def.Category
		if category == "" {
			category = def.Name
		}
		if want[category] {
			out = append(out, def)
		}
	}
	return out
}

// RequireLuhn wraps the normalizer of every credit card rule with WithLuhn
func RequireLuhn(defs []Definition) []Definition {
	out := make([]Definition, len(defs))
	copy(out, defs)
	for i, def := range out {
		category := def.Category
		if category == "" {
			category = def.Name
		}
		if category != CategoryCreditCards {
			continue
		}
		out[i].Normalize = WithLuhn(def.Normalize)
	}
	return out
}

// DefinitionCategories returns the distinct categories of defs in first-seen order
func DefinitionCategories(defs []Definition) []string {
	seen := make(map[string]bool, len(defs))
	var out []string
	for _, def := range defs {
		category := def.Category
		if category == "" {
			category = def.Name
		}
		if !seen[category] {
			seen[category] = true
			out = append(out, category)
		}
	}
	return out
}
