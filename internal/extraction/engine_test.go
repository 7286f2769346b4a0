// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extraction

import (
	"sort"
	"strings"
	"testing"

	"shape-scan/internal/observability"
	"shape-scan/internal/patterns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

const sampleText = `From: a.b+c@example.co.uk
To: ops@example.com, ops@example.com
Visit https://example.com/docs or http://test.local/x?y=1 #launch #Launch #launch
Call +1 (555) 123-4567 or 020.7946.0958 before 14:30 / 2:30 PM; repeat 14:30.
Cards: 4111111111111111, 4111-1111-1111-1111, 371449635398431, id 123456789012
Markup: <div class="x>y">hi</div>
Total: $1,234.50 paid, $ 99 refund, $1,234.50 again`

func TestExtract_SampleDocument(t *testing.T) {
	got := Extract(sampleText, nil)

	assert.Equal(t, []string{"a.b+c@example.co.uk", "ops@example.com"}, got[patterns.CategoryEmails])
	assert.Equal(t, []string{"http://test.local/x?y=1", "https://example.com/docs"}, got[patterns.CategoryURLs])
	assert.Equal(t, []string{"#Launch", "#launch"}, got[patterns.CategoryHashtags])
	assert.Equal(t, []string{"14:30", "2:30 PM"}, got[patterns.CategoryTimes])
	assert.Equal(t, []string{"3714 496353 98431", "4111 1111 1111 1111"}, got[patterns.CategoryCreditCards])
	assert.Equal(t, []string{"</div>", `<div class="x>y">`}, got[patterns.CategoryHTMLTags])
	assert.Equal(t, []string{"$ 99", "$1,234.50"}, got[patterns.CategoryCurrencyDollars])
	assert.Contains(t, got[patterns.CategoryPhones], "+1 (555) 123-4567")
	assert.Contains(t, got[patterns.CategoryPhones], "020.7946.0958")
}

func TestExtract_Deterministic(t *testing.T) {
	first := Extract(sampleText, nil)
	second := Extract(sampleText, nil)
	assert.Equal(t, first, second)
}

func TestExtract_SortedAndDistinct(t *testing.T) {
	got := Extract(strings.Repeat(sampleText+"\n", 5), nil)

	for category, values := range got {
		assert.True(t, sort.StringsAreSorted(values), "category %s is not sorted: %v", category, values)

		seen := make(map[string]bool, len(values))
		for _, v := range values {
			assert.False(t, seen[v], "category %s has duplicate %q", category, v)
			seen[v] = true
		}
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	got := Extract("", nil)

	require.Len(t, got, len(patterns.DefaultCategories))
	for _, category := range patterns.DefaultCategories {
		values, ok := got[category]
		require.True(t, ok, "category %s missing", category)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	}
}

func TestExtract_NoMatchKeepsKey(t *testing.T) {
	got := Extract("nothing to see here", nil)
	for _, category := range patterns.DefaultCategories {
		assert.Equal(t, []string{}, got[category])
	}
}

func TestExtract_CardLengthFilter(t *testing.T) {
	got := Extract("ref 123456789012 card 4111111111111111", nil)
	assert.Equal(t, []string{"4111 1111 1111 1111"}, got[patterns.CategoryCreditCards])
}

func TestExtract_FifteenDigitCard(t *testing.T) {
	got := Extract("amex 371449635398431", nil)
	assert.Equal(t, []string{"3714 496353 98431"}, got[patterns.CategoryCreditCards])
}

func TestExtract_OtherCardLengthsBare(t *testing.T) {
	got := Extract("visa13 4222 2222 22222 and 6011-0009-9013-9424-123", nil)
	assert.Equal(t, []string{"4222222222222", "6011000990139424123"}, got[patterns.CategoryCreditCards])
}

func TestExtract_TwentyDigitRunIgnored(t *testing.T) {
	got := Extract("serial 12345678901234567890 end", nil)
	assert.Empty(t, got[patterns.CategoryCreditCards])
}

func TestExtract_SeparatedRunOverNineteenDigitsIgnored(t *testing.T) {
	got := Extract("acct 1234 5678 9012 3456 7890 closed", nil)
	assert.Empty(t, got[patterns.CategoryCreditCards])
}

func TestExtract_ShortGroupDoesNotJoinCard(t *testing.T) {
	got := Extract("id 123456789012 5 items, card 4111111111111111 12 times", nil)
	assert.Equal(t, []string{"4111 1111 1111 1111"}, got[patterns.CategoryCreditCards])
}

func TestExtract_PhoneBareCountryCode(t *testing.T) {
	got := Extract("call 1 555 123 4567 or 44-20-7946-0958", nil)
	assert.Equal(t, []string{"1 555 123 4567", "44-20-7946-0958"}, got[patterns.CategoryPhones])
}

func TestExtract_CombinedTimes(t *testing.T) {
	got := Extract("2:30 PM then 14:30, later 14:30 and 2:30 PM", nil)
	assert.Equal(t, []string{"14:30", "2:30 PM"}, got[patterns.CategoryTimes])
}

func TestExtract_SpecExamples(t *testing.T) {
	assert.Equal(t, []string{"a.b+c@example.co.uk"},
		Extract("contact: a.b+c@example.co.uk for info", nil)[patterns.CategoryEmails])
	assert.Equal(t, []string{"#AI_2024"},
		Extract("see #AI_2024 now", nil)[patterns.CategoryHashtags])
	assert.Empty(t, Extract("a lonely # here", nil)[patterns.CategoryHashtags])
	assert.Equal(t, []string{"$1,234.50"},
		Extract("$1,234.50 paid", nil)[patterns.CategoryCurrencyDollars])
}

func TestExtract_CategoriesOverlapIndependently(t *testing.T) {
	got := Extract("4111 1111 1111 1111", nil)
	assert.Equal(t, []string{"4111 1111 1111 1111"}, got[patterns.CategoryCreditCards])
	assert.Equal(t, []string{"4111 1111 1111"}, got[patterns.CategoryPhones])
}

func TestExtract_AbsentRuleContributesEmptyList(t *testing.T) {
	defs := patterns.Apply(patterns.DefaultDefinitions(), map[string]patterns.Override{
		patterns.CategoryEmails: {Disabled: true},
	})
	reg, err := patterns.New(defs)
	require.NoError(t, err)

	got := Extract("a@b.io #tag", reg)
	assert.Equal(t, []string{}, got[patterns.CategoryEmails])
	assert.Equal(t, []string{"#tag"}, got[patterns.CategoryHashtags])
}

func TestExtract_CustomCategory(t *testing.T) {
	defs := patterns.Apply(patterns.DefaultDefinitions(), map[string]patterns.Override{
		"ipv4": {Pattern: `\b\d{1,3}(?:\.\d{1,3}){3}\b`, Category: "ip_addresses"},
	})
	reg, err := patterns.New(defs)
	require.NoError(t, err)

	got := Extract("hosts 10.0.0.1 and 192.168.1.20 and 10.0.0.1", reg)
	assert.Equal(t, []string{"10.0.0.1", "192.168.1.20"}, got["ip_addresses"])
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	text := strings.Repeat(sampleText+"\n", 20)

	sequential := NewEngine(nil).Extract(text)
	parallel := NewEngine(nil, WithParallelism(4)).Extract(text)

	assert.Equal(t, sequential, parallel)
}

func TestEngine_LuhnExtension(t *testing.T) {
	reg, err := patterns.New(patterns.RequireLuhn(patterns.DefaultDefinitions()))
	require.NoError(t, err)

	got := NewEngine(reg).Extract("good 4111111111111111 bad 4111111111111112")
	assert.Equal(t, []string{"4111 1111 1111 1111"}, got[patterns.CategoryCreditCards])
}

func TestEngine_RunStatsAndFirstSeen(t *testing.T) {
	text := "#one then #one again"
	out := NewEngine(nil).Run(text)

	assert.Equal(t, len(text), out.Stats.BytesScanned)
	assert.Equal(t, len(patterns.Default().Rules()), out.Stats.RuleCount)
	assert.Equal(t, 2, out.Stats.RawMatches)

	first, ok := out.FirstSeen[patterns.CategoryHashtags]["#one"]
	require.True(t, ok)
	assert.Equal(t, 0, first.Offset)
}

func TestEngine_FirstSeenUsesRawMatchForCards(t *testing.T) {
	out := NewEngine(nil).Run("x 4111-1111-1111-1111 y 4111111111111111")

	first := out.FirstSeen[patterns.CategoryCreditCards]["4111 1111 1111 1111"]
	assert.Equal(t, "4111-1111-1111-1111", first.Text)
	assert.Equal(t, 2, first.Offset)
}

func TestEngine_MatchesInRuleOrder(t *testing.T) {
	matches := NewEngine(nil).Matches("14:30 #a 123456789012")

	var rules []string
	for _, m := range matches {
		rules = append(rules, m.Rule)
	}
	assert.Equal(t, []string{patterns.CategoryPhones, patterns.RuleTimes24h, patterns.CategoryHashtags}, rules)
}

func TestEngine_ObserverLogsEachRule(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	obs := observability.NewStandardObserver(observability.ObservabilityDebug, zap.New(core))

	NewEngine(nil, WithObserver(obs)).Extract("#tag")

	entries := logs.FilterField(zap.String("component", "extraction")).All()
	assert.Len(t, entries, len(patterns.Default().Rules()))
}
