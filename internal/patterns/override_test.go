// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestApply_NoOverridesReturnsCopy(t *testing.T) {
	defs := DefaultDefinitions()
	out := Apply(defs, nil)
	require.Len(t, out, len(defs))

	out[0].Pattern = "changed"
	assert.NotEqual(t, "changed", defs[0].Pattern)
}

func TestApply_ReplacesPattern(t *testing.T) {
	out := Apply(DefaultDefinitions(), map[string]Override{
		CategoryHashtags: {Pattern: `#[a-z]+`},
	})

	reg, err := New(out)
	require.NoError(t, err)
	rule, _ := reg.Rule(CategoryHashtags)
	assert.Equal(t, `#[a-z]+`, rule.Pattern())
}

func TestApply_DisabledKeepsCategory(t *testing.T) {
	out := Apply(DefaultDefinitions(), map[string]Override{
		CategoryURLs: {Disabled: true},
	})

	reg, err := New(out)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories, reg.Categories())

	rule, _ := reg.Rule(CategoryURLs)
	assert.False(t, rule.Present())
}

func TestApply_AddsNewRulesInNameOrder(t *testing.T) {
	out := Apply(DefaultDefinitions(), map[string]Override{
		"zip_codes": {Pattern: `\b\d{5}\b`},
		"ipv4":      {Pattern: `\b\d{1,3}(?:\.\d{1,3}){3}\b`, Category: "ip_addresses"},
	})

	reg, err := New(out)
	require.NoError(t, err)

	cats := reg.Categories()
	assert.Equal(t, append(append([]string{}, DefaultCategories...), "ip_addresses", "zip_codes"), cats)
}

func TestApply_CaseInsensitiveOverride(t *testing.T) {
	out := Apply(DefaultDefinitions(), map[string]Override{
		CategoryURLs: {CaseInsensitive: boolPtr(false)},
	})

	reg, err := New(out)
	require.NoError(t, err)
	rule, _ := reg.Rule(CategoryURLs)
	assert.Empty(t, rule.FindAll("HTTPS://EXAMPLE.COM"))
}

func TestApply_InvalidOverrideSurfacesRuleError(t *testing.T) {
	out := Apply(DefaultDefinitions(), map[string]Override{
		CategoryPhones: {Pattern: `(\d`},
	})

	_, err := New(out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"phones"`)
}

func TestSelect(t *testing.T) {
	out := Select(DefaultDefinitions(), []string{CategoryTimes, CategoryEmails})

	var names []string
	for _, d := range out {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{CategoryEmails, RuleTimes24h, RuleTimes12h}, names)
}

func TestRequireLuhn(t *testing.T) {
	reg, err := New(RequireLuhn(DefaultDefinitions()))
	require.NoError(t, err)

	rule, _ := reg.Rule(CategoryCreditCards)
	_, ok := rule.Normalize("4111 1111 1111 1112")
	assert.False(t, ok)

	got, ok := rule.Normalize("4111 1111 1111 1111")
	assert.True(t, ok)
	assert.Equal(t, "4111 1111 1111 1111", got)
}

func TestDefinitionCategories(t *testing.T) {
	assert.Equal(t, DefaultCategories, DefinitionCategories(DefaultDefinitions()))
	assert.Equal(t, []string{"solo"}, DefinitionCategories([]Definition{{Name: "solo"}}))
}
