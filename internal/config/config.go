// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"shape-scan/internal/paths"
	"shape-scan/internal/patterns"

	"gopkg.in/yaml.v3"
)

// Defaults holds the settings used when no flag or profile says otherwise
type Defaults struct {
	Format         string `yaml:"format"`
	Checks         string `yaml:"checks"`
	NoColor        bool   `yaml:"no_color"`
	Debug          bool   `yaml:"debug"`
	LogFormat      string `yaml:"log_format"`
	Parallelism    int    `yaml:"parallelism"`
	FailOnFindings bool   `yaml:"fail_on_findings"`
}

// PatternConfig overrides or adds one recognition rule
type PatternConfig struct {
	Pattern         string `yaml:"pattern"`
	Category        string `yaml:"category,omitempty"`
	CaseInsensitive *bool  `yaml:"case_insensitive,omitempty"`
	Disabled        bool   `yaml:"disabled,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Defaults Defaults `yaml:"defaults"`

	// Rule overrides keyed by rule name. Unknown names add a rule.
	Patterns map[string]PatternConfig `yaml:"patterns"`

	// Per-category validator settings, e.g. validators.credit_cards.luhn
	Validators map[string]map[string]interface{} `yaml:"validators"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Format         string                            `yaml:"format"`
	Checks         string                            `yaml:"checks"`
	NoColor        bool                              `yaml:"no_color"`
	Debug          bool                              `yaml:"debug"`
	Parallelism    int                               `yaml:"parallelism"`
	FailOnFindings bool                              `yaml:"fail_on_findings"`
	Description    string                            `yaml:"description"`
	Validators     map[string]map[string]interface{} `yaml:"validators"`
}

var (
	validFormats    = []string{"json", "yaml", "text", "csv"}
	validLogFormats = []string{"console", "json"}
)

// defaultConfig returns the built-in configuration
func defaultConfig() *Config {
	config := &Config{
		Patterns:   make(map[string]PatternConfig),
		Validators: make(map[string]map[string]interface{}),
		Profiles:   make(map[string]Profile),
	}

	config.Defaults.Format = "json"
	config.Defaults.Checks = "all"
	config.Defaults.LogFormat = "console"
	config.Defaults.Parallelism = 1

	config.Profiles["precommit"] = Profile{
		Format:         "text",
		Checks:         "emails,phones,credit_cards",
		NoColor:        true,
		FailOnFindings: true,
		Description:    "Concise output for pre-commit hooks, failing when personal data is found",
	}
	config.Profiles["strict-cards"] = Profile{
		Checks:      "credit_cards",
		Description: "Only payment card numbers that pass the Luhn checksum",
		Validators: map[string]map[string]interface{}{
			patterns.CategoryCreditCards: {"luhn": true},
		},
	}

	return config
}

// LoadConfig loads configuration from the specified file path. An empty path
// returns the built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return defaultConfig()
	}
	return cfg
}

// FindConfigFile looks for a configuration file in the working directory, then in
// the user configuration directory. It returns "" when none exists.
func FindConfigFile() string {
	for _, name := range []string{"shape-scan.yaml", "shape-scan.yml", ".shape-scan.yaml", ".shape-scan.yml", "config.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	for _, candidate := range paths.GetConfigFiles() {
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ValidateConfig checks settings that can be verified without compiling patterns.
// Pattern syntax is checked when the registry is built.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validateDefaults("defaults", config.Defaults.Format, config.Defaults.Parallelism); err != nil {
		return err
	}
	if !contains(validLogFormats, config.Defaults.LogFormat) {
		return fmt.Errorf("defaults: invalid log_format %q (must be one of %s)",
			config.Defaults.LogFormat, strings.Join(validLogFormats, ", "))
	}

	for name, profile := range config.Profiles {
		if err := validateDefaults(fmt.Sprintf("profile '%s'", name), profile.Format, profile.Parallelism); err != nil {
			return err
		}
	}

	for name, p := range config.Patterns {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("patterns: rule name cannot be empty")
		}
		if p.Pattern == "" && !p.Disabled && !isDefaultRule(name) {
			return fmt.Errorf("patterns: new rule %q needs a pattern", name)
		}
	}

	return nil
}

func validateDefaults(scope, format string, parallelism int) error {
	if format != "" && !contains(validFormats, format) {
		return fmt.Errorf("%s: invalid format %q (must be one of %s)", scope, format, strings.Join(validFormats, ", "))
	}
	if parallelism < 0 {
		return fmt.Errorf("%s: parallelism cannot be negative", scope)
	}
	return nil
}

func isDefaultRule(name string) bool {
	for _, def := range patterns.DefaultDefinitions() {
		if def.Name == name {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// ListProfiles returns the sorted profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// Effective merges the named profile over the defaults. Profile fields only win when
// set. An empty name returns the defaults unchanged.
func (c *Config) Effective(profileName string) (Defaults, error) {
	out := c.Defaults
	if profileName == "" {
		return out, nil
	}

	profile := c.GetProfile(profileName)
	if profile == nil {
		return out, fmt.Errorf("profile %q not found (available: %s)", profileName, strings.Join(c.ListProfiles(), ", "))
	}

	if profile.Format != "" {
		out.Format = profile.Format
	}
	if profile.Checks != "" {
		out.Checks = profile.Checks
	}
	if profile.Parallelism > 0 {
		out.Parallelism = profile.Parallelism
	}
	out.NoColor = out.NoColor || profile.NoColor
	out.Debug = out.Debug || profile.Debug
	out.FailOnFindings = out.FailOnFindings || profile.FailOnFindings

	return out, nil
}

// PatternOverrides converts the patterns section into registry overrides
func (c *Config) PatternOverrides() map[string]patterns.Override {
	if len(c.Patterns) == 0 {
		return nil
	}
	out := make(map[string]patterns.Override, len(c.Patterns))
	for name, p := range c.Patterns {
		out[name] = patterns.Override{
			Pattern:         p.Pattern,
			Category:        p.Category,
			CaseInsensitive: p.CaseInsensitive,
			Disabled:        p.Disabled,
		}
	}
	return out
}

// ValidatorBool reads a boolean validator option. The profile's validators take
// precedence over the global ones.
func (c *Config) ValidatorBool(profile *Profile, category, key string) bool {
	if profile != nil {
		if v, ok := lookupBool(profile.Validators, category, key); ok {
			return v
		}
	}
	v, _ := lookupBool(c.Validators, category, key)
	return v
}

func lookupBool(validators map[string]map[string]interface{}, category, key string) (bool, bool) {
	settings, ok := validators[category]
	if !ok {
		return false, false
	}
	v, ok := settings[key].(bool)
	return v, ok
}
