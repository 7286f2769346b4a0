// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package precommit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		vars map[string]string
		want bool
	}{
		{"plain shell", nil, false},
		{"pre-commit framework", map[string]string{"PRE_COMMIT": "1"}, true},
		{"running marker", map[string]string{"_PRE_COMMIT_RUNNING": "1"}, true},
		{"pre-commit home", map[string]string{"PRE_COMMIT_HOME": "/tmp/pc"}, true},
		{"git hook", map[string]string{"PRE_COMMIT_HOOK": "1"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pd := NewPrecommitDetectorWithEnv(env(tc.vars), false)
			assert.Equal(t, tc.want, pd.IsPrecommitEnvironment())
			assert.Equal(t, tc.want, pd.GetOptimizedConfig().NoColor)
		})
	}
}

func TestExplicitMode(t *testing.T) {
	pd := NewPrecommitDetectorWithEnv(env(nil), true)
	assert.True(t, pd.IsPrecommitEnvironment())
	assert.Equal(t, ProfileName, pd.GetSuggestedProfile())
}

func TestSuggestedProfileOutsideHook(t *testing.T) {
	pd := NewPrecommitDetectorWithEnv(env(nil), false)
	assert.Empty(t, pd.GetSuggestedProfile())
}

func TestFailOverride(t *testing.T) {
	pd := NewPrecommitDetectorWithEnv(env(map[string]string{"PRE_COMMIT": "1", "SHAPE_SCAN_PRECOMMIT_FAIL": "false"}), false)
	assert.False(t, pd.GetOptimizedConfig().FailOnFindings)

	pd = NewPrecommitDetectorWithEnv(env(map[string]string{"SHAPE_SCAN_PRECOMMIT_FAIL": "maybe"}), false)
	assert.True(t, pd.GetOptimizedConfig().FailOnFindings)
}
