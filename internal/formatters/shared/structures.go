// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"
)

// Envelope is the verbose JSON/YAML document. The plain output is Results alone.
type Envelope struct {
	Source     string                         `json:"source" yaml:"source"`
	Results    detector.ResultSet             `json:"results" yaml:"results"`
	Suppressed []detector.SuppressedFinding   `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
	FirstSeen  map[string]map[string]Location `json:"first_seen,omitempty" yaml:"first_seen,omitempty"`
	Stats      *Stats                         `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Location is where a finding first appeared in the scanned text
type Location struct {
	Rule   string `json:"rule" yaml:"rule"`
	Offset int    `json:"offset" yaml:"offset"`
	Match  string `json:"match" yaml:"match"`
}

// Stats mirrors detector.Stats with the duration in milliseconds
type Stats struct {
	BytesScanned int     `json:"bytes_scanned" yaml:"bytes_scanned"`
	RuleCount    int     `json:"rule_count" yaml:"rule_count"`
	RawMatches   int     `json:"raw_matches" yaml:"raw_matches"`
	Findings     int     `json:"findings" yaml:"findings"`
	DurationMs   float64 `json:"duration_ms" yaml:"duration_ms"`
}

// WantsEnvelope reports whether options ask for more than the plain mapping
func WantsEnvelope(options formatters.FormatterOptions) bool {
	return options.Verbose || options.ShowSuppressed
}

// BuildEnvelope converts a report for JSON/YAML output. Verbose adds source locations
// and statistics; ShowSuppressed adds suppressed findings.
func BuildEnvelope(report *detector.Report, options formatters.FormatterOptions) Envelope {
	env := Envelope{
		Source:  report.Source,
		Results: report.Results,
	}

	if options.ShowSuppressed {
		env.Suppressed = report.Suppressed
	}

	if options.Verbose {
		env.Stats = &Stats{
			BytesScanned: report.Stats.BytesScanned,
			RuleCount:    report.Stats.RuleCount,
			RawMatches:   report.Stats.RawMatches,
			Findings:     report.Results.Total(),
			DurationMs:   float64(report.Stats.Duration.Microseconds()) / 1000,
		}

		if len(report.FirstSeen) > 0 {
			env.FirstSeen = make(map[string]map[string]Location, len(report.Results))
			for category, values := range report.Results {
				if len(values) == 0 {
					continue
				}
				locations := make(map[string]Location, len(values))
				for _, value := range values {
					if m, ok := report.FirstSeen[category][value]; ok {
						locations[value] = Location{Rule: m.Rule, Offset: m.Offset, Match: m.Text}
					}
				}
				env.FirstSeen[category] = locations
			}
		}
	}

	return env
}
