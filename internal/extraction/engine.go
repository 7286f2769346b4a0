// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extraction runs a pattern registry over text and builds the per-category
// catalog of normalized, deduplicated and sorted findings.
package extraction

import (
	"sort"
	"time"

	"shape-scan/internal/detector"
	"shape-scan/internal/observability"
	"shape-scan/internal/patterns"

	"golang.org/x/sync/errgroup"
)

// Engine applies every rule of a registry to a text
type Engine struct {
	registry    *patterns.Registry
	parallelism int
	observer    *observability.StandardObserver
}

// Option configures an Engine
type Option func(*Engine)

// WithParallelism scans up to n rules concurrently. Values below 2 keep the scan sequential.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		e.parallelism = n
	}
}

// WithObserver reports per-rule timing and match counts
func WithObserver(observer *observability.StandardObserver) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// NewEngine creates an engine for the registry. A nil registry uses patterns.Default().
func NewEngine(registry *patterns.Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = patterns.Default()
	}
	e := &Engine{registry: registry, parallelism: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome is the full result of one extraction run
type Outcome struct {
	Results detector.ResultSet

	// FirstSeen maps category -> finding -> the earliest raw match that produced it,
	// in rule order then offset order.
	FirstSeen map[string]map[string]detector.Match

	Stats detector.Stats
}

// Extract is shorthand for NewEngine(registry).Extract(text)
func Extract(text string, registry *patterns.Registry) detector.ResultSet {
	return NewEngine(registry).Extract(text)
}

// Extract returns the result set for text. Every category of the registry is present,
// with an empty list when nothing matched.
func (e *Engine) Extract(text string) detector.ResultSet {
	return e.Run(text).Results
}

// Matches returns the raw matches of every rule, in rule order then offset order.
// Candidates dropped by normalization are not included.
func (e *Engine) Matches(text string) []detector.Match {
	var out []detector.Match
	for _, res := range e.scan(text) {
		out = append(out, res.kept...)
	}
	return out
}

// Run extracts findings and gathers run statistics
func (e *Engine) Run(text string) *Outcome {
	start := time.Now()
	perRule := e.scan(text)

	results := make(detector.ResultSet, len(e.registry.Categories()))
	firstSeen := make(map[string]map[string]detector.Match, len(e.registry.Categories()))
	for _, category := range e.registry.Categories() {
		results[category] = []string{}
		firstSeen[category] = make(map[string]detector.Match)
	}

	rawCount := 0
	for _, res := range perRule {
		rawCount += res.raw
		seen := firstSeen[res.category]
		for i, value := range res.values {
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = res.kept[i]
			results[res.category] = append(results[res.category], value)
		}
	}

	for _, values := range results {
		sort.Strings(values)
	}

	return &Outcome{
		Results:   results,
		FirstSeen: firstSeen,
		Stats: detector.Stats{
			BytesScanned: len(text),
			RuleCount:    len(perRule),
			RawMatches:   rawCount,
			Duration:     time.Since(start),
		},
	}
}

// ruleResult is the independent working list of one rule
type ruleResult struct {
	category string
	raw      int
	values   []string
	kept     []detector.Match
}

func (e *Engine) scan(text string) []ruleResult {
	rules := e.registry.Rules()
	out := make([]ruleResult, len(rules))

	if e.parallelism < 2 || len(rules) < 2 {
		for i, rule := range rules {
			out[i] = e.scanRule(rule, text)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i, rule := range rules {
		g.Go(func() error {
			out[i] = e.scanRule(rule, text)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Engine) scanRule(rule *patterns.Rule, text string) ruleResult {
	var finish func(bool, map[string]interface{})
	if e.observer != nil {
		finish = e.observer.StartTiming("extraction", "scan_rule", rule.Name())
	}

	res := ruleResult{category: rule.Category()}
	matches := rule.FindAll(text)
	res.raw = len(matches)
	for _, m := range matches {
		value, ok := rule.Normalize(m.Text)
		if !ok {
			continue
		}
		res.values = append(res.values, value)
		res.kept = append(res.kept, m)
	}

	if finish != nil {
		finish(true, map[string]interface{}{
			"category":    res.category,
			"raw_matches": res.raw,
			"kept":        len(res.values),
			"present":     rule.Present(),
		})
	}
	return res
}
