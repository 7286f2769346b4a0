// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"sort"
	"time"
)

// Match is a single raw hit of a recognition rule against a text
type Match struct {
	Rule     string // Name of the rule that produced the match (e.g. "times_24h")
	Category string // Result category the rule feeds (e.g. "times")
	Text     string // Matched substring, trimmed of surrounding whitespace
	Offset   int    // Byte offset of Text in the scanned text
}

// ResultSet maps a category name to its sorted, duplicate-free findings.
type ResultSet map[string][]string

// Categories returns the category keys in ascending order
func (rs ResultSet) Categories() []string {
	keys := make([]string, 0, len(rs))
	for k := range rs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of findings across all categories
func (rs ResultSet) Total() int {
	total := 0
	for _, values := range rs {
		total += len(values)
	}
	return total
}

// Clone returns a deep copy so callers can't mutate a returned result set
func (rs ResultSet) Clone() ResultSet {
	out := make(ResultSet, len(rs))
	for k, v := range rs {
		cp := make([]string, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// SuppressedFinding represents a finding that was hidden by a suppression rule
type SuppressedFinding struct {
	Category     string     `json:"category" yaml:"category"`
	Value        string     `json:"value" yaml:"value"`
	SuppressedBy string     `json:"suppressed_by" yaml:"suppressed_by"`
	RuleReason   string     `json:"rule_reason" yaml:"rule_reason"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Stats describes one extraction run
type Stats struct {
	BytesScanned int           `json:"bytes_scanned" yaml:"bytes_scanned"`
	RuleCount    int           `json:"rule_count" yaml:"rule_count"`
	RawMatches   int           `json:"raw_matches" yaml:"raw_matches"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}

// Report is everything a formatter needs to render one scan
type Report struct {
	Source     string
	Results    ResultSet
	Suppressed []SuppressedFinding

	// FirstSeen holds the first raw match behind each finding, keyed by category then value.
	// Only populated for verbose scans.
	FirstSeen map[string]map[string]Match

	Stats Stats
}

// HasFindings reports whether any unsuppressed finding exists
func (r *Report) HasFindings() bool {
	return r != nil && r.Results.Total() > 0
}

// Merge folds other into r: findings are unioned and re-sorted per category, the
// earliest first occurrence wins, and run statistics add up.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}

	switch {
	case r.Source == "":
		r.Source = other.Source
	case other.Source != "":
		r.Source += ", " + other.Source
	}

	if r.Results == nil {
		r.Results = make(ResultSet, len(other.Results))
	}
	for category, values := range other.Results {
		r.Results[category] = mergeSorted(r.Results[category], values)
	}

	seen := make(map[string]bool, len(r.Suppressed))
	for _, s := range r.Suppressed {
		seen[s.Category+"\x00"+s.Value] = true
	}
	for _, s := range other.Suppressed {
		if key := s.Category + "\x00" + s.Value; !seen[key] {
			seen[key] = true
			r.Suppressed = append(r.Suppressed, s)
		}
	}

	if other.FirstSeen != nil {
		if r.FirstSeen == nil {
			r.FirstSeen = make(map[string]map[string]Match, len(other.FirstSeen))
		}
		for category, byValue := range other.FirstSeen {
			if r.FirstSeen[category] == nil {
				r.FirstSeen[category] = make(map[string]Match, len(byValue))
			}
			for value, m := range byValue {
				if _, ok := r.FirstSeen[category][value]; !ok {
					r.FirstSeen[category][value] = m
				}
			}
		}
	}

	r.Stats.BytesScanned += other.Stats.BytesScanned
	r.Stats.RawMatches += other.Stats.RawMatches
	r.Stats.Duration += other.Stats.Duration
	if other.Stats.RuleCount > r.Stats.RuleCount {
		r.Stats.RuleCount = other.Stats.RuleCount
	}
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.Strings(out)

	deduped := out[:0]
	for i, v := range out {
		if i > 0 && v == out[i-1] {
			continue
		}
		deduped = append(deduped, v)
	}
	return deduped
}
