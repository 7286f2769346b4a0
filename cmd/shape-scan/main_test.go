// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `Contact ops@example.com or +1 (555) 123-4567 at 14:30.
Card 4111-1111-1111-1111, total $1,234.50 #release`

type result struct {
	code   int
	stdout string
	stderr string
}

// isolate runs the test in an empty directory with no user configuration
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	for _, name := range []string{"CI", "SHAPE_SCAN_CONFIG_DIR", "PRE_COMMIT", "_PRE_COMMIT_RUNNING", "PRE_COMMIT_HOME", "PRE_COMMIT_HOOK", "SHAPE_SCAN_PRECOMMIT_FAIL"} {
		t.Setenv(name, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestScan_FileJSON(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "notes.txt", sample)

	res := execute(t, "", "scan", path)
	require.Equal(t, exitOK, res.code, res.stderr)

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, []string{"ops@example.com"}, got["emails"])
	assert.Equal(t, []string{"4111 1111 1111 1111"}, got["credit_cards"])
	assert.Equal(t, []string{"14:30"}, got["times"])
	assert.Equal(t, []string{"#release"}, got["hashtags"])
	assert.Equal(t, []string{"$1,234.50"}, got["currency_dollars"])
	assert.Equal(t, []string{}, got["html_tags"])
	assert.Len(t, got, 8)
}

func TestScan_StdinSelectedChecksText(t *testing.T) {
	isolate(t)

	res := execute(t, sample, "scan", "--checks", "emails,hashtags", "--format", "text")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "emails (1)\n  ops@example.com\n")
	assert.Contains(t, res.stdout, "#release")
	assert.NotContains(t, res.stdout, "4111")
}

func TestScan_DashReadsStdin(t *testing.T) {
	isolate(t)

	res := execute(t, "#one", "scan", "-", "--format", "csv", "--checks", "hashtags")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "category,value\nhashtags,#one\n", res.stdout)
}

func TestScan_FailOnFindings(t *testing.T) {
	isolate(t)

	res := execute(t, sample, "scan", "--fail-on-findings")
	assert.Equal(t, exitFindings, res.code)
	assert.NotContains(t, res.stderr, "Error:")

	res = execute(t, "nothing here", "scan", "--fail-on-findings")
	assert.Equal(t, exitOK, res.code)
}

func TestScan_MultipleFilesMerged(t *testing.T) {
	dir := isolate(t)
	first := writeFile(t, dir, "a.txt", "#beta ops@example.com")
	second := writeFile(t, dir, "b.txt", "#alpha #beta")

	res := execute(t, "", "scan", "--checks", "hashtags,emails", first, second)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `{"hashtags": ["#alpha", "#beta"], "emails": ["ops@example.com"]}`, res.stdout)
}

func TestScan_PrecommitEnvironment(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "staged.txt", sample)
	t.Setenv("PRE_COMMIT", "1")

	res := execute(t, "", "scan", path)
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stdout, "emails (1)")
	assert.NotContains(t, res.stdout, "hashtags")

	t.Setenv("SHAPE_SCAN_PRECOMMIT_FAIL", "false")
	res = execute(t, "", "scan", path)
	assert.Equal(t, exitOK, res.code)
}

func TestScan_PrecommitModeFlag(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "clean.txt", "nothing to report")

	res := execute(t, "", "--precommit-mode", "scan", path)
	assert.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No findings.")
}

func TestScan_ProfileFromBuiltInConfig(t *testing.T) {
	isolate(t)

	res := execute(t, sample, "--profile", "precommit", "scan")
	assert.Equal(t, exitFindings, res.code)
	assert.Contains(t, res.stdout, "emails (1)")
	assert.NotContains(t, res.stdout, "hashtags")
}

func TestScan_Errors(t *testing.T) {
	dir := isolate(t)
	badConfig := writeFile(t, dir, "bad.yaml", "patterns:\n  phones:\n    pattern: \"(\\\\d\"\n")

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown check", []string{"scan", "--checks", "bogus"}, "unknown check(s) bogus"},
		{"unknown format", []string{"scan", "--format", "xml"}, "unsupported format 'xml'"},
		{"missing file", []string{"scan", filepath.Join(dir, "absent.txt")}, "absent.txt"},
		{"unknown profile", []string{"--profile", "nope", "scan"}, `profile "nope" not found`},
		{"missing config", []string{"--config", filepath.Join(dir, "absent.yaml"), "scan"}, "error reading config file"},
		{"invalid rule", []string{"--config", badConfig, "scan"}, `"phones"`},
		{"unknown flag", []string{"scan", "--bogus"}, "unknown flag"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := execute(t, sample, tc.args...)
			assert.Equal(t, exitError, res.code)
			assert.Contains(t, res.stderr, tc.want)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestScan_OutputFile(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "found.yaml")

	res := execute(t, sample, "scan", "--format", "yaml", "--checks", "times", "--output", out)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var got map[string][]string
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, map[string][]string{"times": {"14:30"}}, got)
}

func TestScan_ConfigAddsCategory(t *testing.T) {
	dir := isolate(t)
	cfg := writeFile(t, dir, "shape-scan.yaml", `patterns:
  ipv4:
    pattern: '\b\d{1,3}(?:\.\d{1,3}){3}\b'
    category: ip_addresses
`)

	res := execute(t, "host 10.0.0.1", "--config", cfg, "scan", "--checks", "ip_addresses")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `{"ip_addresses": ["10.0.0.1"]}`, res.stdout)

	// discovered in the working directory without --config
	res = execute(t, "host 10.0.0.1", "scan", "--checks", "ip_addresses")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `{"ip_addresses": ["10.0.0.1"]}`, res.stdout)
}

func TestSuppress_AddThenScan(t *testing.T) {
	dir := isolate(t)
	supFile := filepath.Join(dir, "sup.yaml")

	res := execute(t, "", "--suppression-file", supFile, "suppress", "add",
		"--category", "emails", "--value", "ops@example.com", "--reason", "shared mailbox")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Added suppression rule SUP-")

	data, err := os.ReadFile(supFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ops@example.com")

	res = execute(t, sample, "--suppression-file", supFile, "scan", "--checks", "emails")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.JSONEq(t, `{"emails": []}`, res.stdout)
	assert.Contains(t, res.stderr, "Suppressed 1 findings")

	res = execute(t, sample, "--suppression-file", supFile, "scan", "--checks", "emails", "--fail-on-findings")
	assert.Equal(t, exitOK, res.code)
}

func TestSuppress_AddRequiresFields(t *testing.T) {
	dir := isolate(t)

	res := execute(t, "", "--suppression-file", filepath.Join(dir, "sup.yaml"), "suppress", "add", "--category", "emails")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "--category and --value are required")
}

func TestSuppress_GenerateEnableList(t *testing.T) {
	dir := isolate(t)
	supFile := filepath.Join(dir, "sup.yaml")

	res := execute(t, "#one #two", "--suppression-file", supFile, "scan", "--checks", "hashtags", "--generate-suppressions")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "Generated 2 suppression rules")

	res = execute(t, "", "--suppression-file", supFile, "suppress", "list")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ID")
	assert.Equal(t, 2, strings.Count(res.stdout, "disabled"))

	id := strings.Fields(strings.Split(res.stdout, "\n")[1])[0]
	res = execute(t, "", "--suppression-file", supFile, "suppress", "enable", id, "--reason", "reviewed")
	require.Equal(t, exitOK, res.code, res.stderr)

	res = execute(t, "#one #two", "--suppression-file", supFile, "scan", "--checks", "hashtags")
	require.Equal(t, exitOK, res.code, res.stderr)

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Len(t, got["hashtags"], 1)
}

func TestSuppress_RemoveAndCleanup(t *testing.T) {
	dir := isolate(t)
	supFile := filepath.Join(dir, "sup.yaml")

	res := execute(t, "", "--suppression-file", supFile, "suppress", "add",
		"--category", "hashtags", "--value", "#x", "--reason", "noise")
	require.Equal(t, exitOK, res.code, res.stderr)
	id := strings.TrimSpace(strings.TrimPrefix(res.stdout, "Added suppression rule "))

	res = execute(t, "", "--suppression-file", supFile, "suppress", "remove", id)
	require.Equal(t, exitOK, res.code, res.stderr)

	res = execute(t, "", "--suppression-file", supFile, "suppress", "remove", id)
	assert.Equal(t, exitError, res.code)

	res = execute(t, "", "--suppression-file", supFile, "suppress", "cleanup")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Removed 0 expired suppression rules\n", res.stdout)

	res = execute(t, "", "--suppression-file", supFile, "suppress", "list")
	assert.Equal(t, "No suppression rules found.\n", res.stdout)
}

func TestChecks(t *testing.T) {
	isolate(t)

	res := execute(t, "", "checks")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "AVAILABLE CHECKS:")
	assert.Contains(t, res.stdout, "credit_cards")

	res = execute(t, "", "checks", "times")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "times_24h")
	assert.Contains(t, res.stdout, "times_12h")

	res = execute(t, "", "checks", "bogus")
	assert.Equal(t, exitError, res.code)
}

func TestVersion(t *testing.T) {
	isolate(t)

	res := execute(t, "", "version")
	require.Equal(t, exitOK, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "shape-scan "))

	res = execute(t, "", "version", "--json")
	require.Equal(t, exitOK, res.code)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.NotEmpty(t, info["version"])
}

func TestDebugLogsToStderr(t *testing.T) {
	isolate(t)

	res := execute(t, "#a", "--debug", "scan", "--checks", "hashtags")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "scan completed")
	assert.JSONEq(t, `{"hashtags": ["#a"]}`, res.stdout)
}

func TestRedact(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "mail.txt", "from ops@example.com re #launch")

	res := execute(t, "", "redact", path, "--checks", "emails,hashtags")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "from [EMAIL-REDACTED] re [HASHTAG-REDACTED]", res.stdout)
	assert.Contains(t, res.stderr, "Redacted 2 findings")

	res = execute(t, "at 14:30", "redact", "--checks", "times", "--strategy", "format_preserving")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "at 00:00", res.stdout)

	res = execute(t, "x", "redact", "--strategy", "synthetic")
	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "unknown redaction strategy")
}
