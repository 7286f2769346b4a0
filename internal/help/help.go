// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"shape-scan/internal/patterns"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check. A check is one
// result category and may be fed by several rules.
type CheckInfo struct {
	Name             string
	ShortDescription string
	Rules            []RuleInfo
	Examples         []string
}

// RuleInfo describes one recognition rule of a check
type RuleInfo struct {
	Name    string
	Pattern string
	Enabled bool
}

// Checks groups the registry's rules by category, in registry order
func Checks(registry *patterns.Registry) []CheckInfo {
	byCategory := make(map[string]*CheckInfo)
	var out []*CheckInfo

	for _, rule := range registry.Rules() {
		info, ok := byCategory[rule.Category()]
		if !ok {
			info = &CheckInfo{Name: rule.Category()}
			byCategory[rule.Category()] = info
			out = append(out, info)
		}
		if info.ShortDescription == "" {
			info.ShortDescription = rule.Description()
		}
		info.Rules = append(info.Rules, RuleInfo{
			Name:    rule.Name(),
			Pattern: rule.Pattern(),
			Enabled: rule.Present(),
		})
		info.Examples = append(info.Examples, rule.Examples()...)
	}

	checks := make([]CheckInfo, len(out))
	for i, info := range out {
		checks[i] = *info
	}
	return checks
}

// System renders help content for the application
type System struct {
	out     io.Writer
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	return &System{
		out:     out,
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"negative": color.New(color.FgRed),
			"example":  color.New(color.FgMagenta),
		},
	}
}

func (h *System) paint(name, s string) string {
	if h.noColor {
		return s
	}
	return h.colors[name].Sprint(s)
}

// ListChecks prints one line per check with its rule count and description
func (h *System) ListChecks(registry *patterns.Registry) {
	fmt.Fprintln(h.out, h.paint("header", "AVAILABLE CHECKS:"))

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	for _, check := range Checks(registry) {
		fmt.Fprintf(w, "  %s\t%d rule(s)\t%s\n", check.Name, len(check.Rules), check.ShortDescription)
	}
	w.Flush()
}

// ShowCheckHelp prints the rules and examples of one check
func (h *System) ShowCheckHelp(registry *patterns.Registry, name string) error {
	for _, check := range Checks(registry) {
		if !strings.EqualFold(check.Name, name) {
			continue
		}

		fmt.Fprintln(h.out, h.paint("title", check.Name))
		if check.ShortDescription != "" {
			fmt.Fprintf(h.out, "  %s\n", check.ShortDescription)
		}
		fmt.Fprintln(h.out)

		fmt.Fprintln(h.out, h.paint("header", "RULES:"))
		w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
		for _, rule := range check.Rules {
			pattern := rule.Pattern
			if !rule.Enabled {
				pattern = h.paint("negative", "(disabled)")
			}
			fmt.Fprintf(w, "  %s\t%s\n", h.paint("item", rule.Name), pattern)
		}
		w.Flush()

		if len(check.Examples) > 0 {
			fmt.Fprintln(h.out)
			fmt.Fprintln(h.out, h.paint("header", "EXAMPLES:"))
			for _, example := range check.Examples {
				fmt.Fprintf(h.out, "  %s\n", h.paint("example", example))
			}
		}
		return nil
	}

	return fmt.Errorf("unknown check %q", name)
}
