// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package suppressions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"shape-scan/internal/detector"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DefaultFile is used when no suppression file is given
const DefaultFile = ".shape-scan-suppressions.yaml"

const configVersion = "1.0"

// SuppressionRule represents a single suppression rule
type SuppressionRule struct {
	ID         string            `yaml:"id"`
	Hash       string            `yaml:"hash"`
	Category   string            `yaml:"category"`
	Reason     string            `yaml:"reason"`
	Enabled    bool              `yaml:"enabled"`
	CreatedBy  string            `yaml:"created_by,omitempty"`
	CreatedAt  time.Time         `yaml:"created_at"`
	LastSeenAt *time.Time        `yaml:"last_seen_at,omitempty"`
	ExpiresAt  *time.Time        `yaml:"expires_at,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty"`
}

// Expired reports whether the rule's expiry is before now
func (r SuppressionRule) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// SuppressionConfig represents the suppression configuration file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager handles finding suppressions
type SuppressionManager struct {
	configPath string
	config     *SuppressionConfig
	enabled    bool
	now        func() time.Time
}

// NewSuppressionManager loads the suppression file at configPath. A missing file
// yields an empty rule set; a malformed one is an error so it is never overwritten.
func NewSuppressionManager(configPath string) (*SuppressionManager, error) {
	if configPath == "" {
		configPath = DefaultFile
	}

	manager := &SuppressionManager{
		configPath: configPath,
		config:     &SuppressionConfig{Version: configVersion, Rules: []SuppressionRule{}},
		enabled:    true,
		now:        time.Now,
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if errors.Is(err, fs.ErrNotExist) {
		return manager, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read suppression file %s: %w", configPath, err)
	}

	var config SuppressionConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse suppression file %s: %w", configPath, err)
	}
	if config.Version == "" {
		config.Version = configVersion
	}
	if config.Rules == nil {
		config.Rules = []SuppressionRule{}
	}
	manager.config = &config
	return manager, nil
}

// FindingHash identifies a finding by category and normalized value. The value itself
// is never written to the suppression file.
func FindingHash(category, value string) string {
	sum := sha256.Sum256([]byte(category + "|" + value))
	return fmt.Sprintf("%x", sum)
}

// IsSuppressed checks if a finding should be suppressed
func (sm *SuppressionManager) IsSuppressed(category, value string) (bool, *SuppressionRule) {
	if !sm.enabled {
		return false, nil
	}

	findingHash := FindingHash(category, value)
	now := sm.now()

	for i := range sm.config.Rules {
		rule := sm.config.Rules[i]
		if rule.Hash != findingHash || !rule.Enabled || rule.Expired(now) {
			continue
		}
		return true, &rule
	}

	return false, nil
}

// Apply splits a result set into the findings that remain and the ones hidden by a
// rule. Every category key of results is kept.
func (sm *SuppressionManager) Apply(results detector.ResultSet) (detector.ResultSet, []detector.SuppressedFinding) {
	kept := make(detector.ResultSet, len(results))
	var suppressed []detector.SuppressedFinding

	for _, category := range results.Categories() {
		kept[category] = []string{}
		for _, value := range results[category] {
			ok, rule := sm.IsSuppressed(category, value)
			if !ok {
				kept[category] = append(kept[category], value)
				continue
			}
			suppressed = append(suppressed, detector.SuppressedFinding{
				Category:     category,
				Value:        value,
				SuppressedBy: rule.ID,
				RuleReason:   rule.Reason,
				ExpiresAt:    rule.ExpiresAt,
			})
		}
	}

	return kept, suppressed
}

// AddSuppression adds a new suppression rule and saves the file
func (sm *SuppressionManager) AddSuppression(category, value, reason, createdBy string, expiresAt *time.Time) (*SuppressionRule, error) {
	findingHash := FindingHash(category, value)
	for _, rule := range sm.config.Rules {
		if rule.Hash == findingHash {
			return nil, fmt.Errorf("suppression rule %s already exists for this finding", rule.ID)
		}
	}

	rule := sm.newRule(category, value, reason, createdBy, true, expiresAt)
	if err := sm.commit(append(sm.rulesCopy(), rule)); err != nil {
		return nil, err
	}
	return &rule, nil
}

// GenerateSuppressionRules creates a rule for every finding that has none yet and
// refreshes last_seen_at on the ones that do. It returns the number of rules added.
func (sm *SuppressionManager) GenerateSuppressionRules(results detector.ResultSet, reason string, enabled bool) (int, error) {
	rules := sm.rulesCopy()
	existing := make(map[string]int, len(rules))
	for i := range rules {
		existing[rules[i].Hash] = i
	}

	now := sm.now()
	added, updated := 0, 0
	for _, category := range results.Categories() {
		for _, value := range results[category] {
			if i, ok := existing[FindingHash(category, value)]; ok {
				rules[i].LastSeenAt = &now
				updated++
				continue
			}
			rule := sm.newRule(category, value, reason, "generate", enabled, nil)
			rule.LastSeenAt = &now
			rules = append(rules, rule)
			existing[rule.Hash] = len(rules) - 1
			added++
		}
	}

	if added == 0 && updated == 0 {
		return 0, nil
	}
	if err := sm.commit(rules); err != nil {
		return 0, err
	}
	return added, nil
}

func (sm *SuppressionManager) newRule(category, value, reason, createdBy string, enabled bool, expiresAt *time.Time) SuppressionRule {
	hash := FindingHash(category, value)
	return SuppressionRule{
		ID:        "SUP-" + uuid.NewString(),
		Hash:      hash,
		Category:  category,
		Reason:    reason,
		Enabled:   enabled,
		CreatedBy: createdBy,
		CreatedAt: sm.now(),
		ExpiresAt: expiresAt,
		Metadata: map[string]string{
			"value_length": fmt.Sprintf("%d", len(value)),
			"hash_prefix":  hash[:16],
		},
	}
}

// RemoveSuppression removes a suppression rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	rules := sm.rulesCopy()
	for i, rule := range rules {
		if rule.ID == id {
			return sm.commit(append(rules[:i], rules[i+1:]...))
		}
	}

	return fmt.Errorf("suppression rule with ID %s not found", id)
}

// EnableSuppression turns on a rule by ID or hash, typically one written disabled by
// GenerateSuppressionRules. A non-empty reason replaces the stored one.
func (sm *SuppressionManager) EnableSuppression(idOrHash, reason string) (*SuppressionRule, error) {
	rules := sm.rulesCopy()
	for i := range rules {
		rule := &rules[i]
		if rule.ID != idOrHash && rule.Hash != idOrHash {
			continue
		}
		rule.Enabled = true
		if reason != "" {
			rule.Reason = reason
		}
		if err := sm.commit(rules); err != nil {
			return nil, err
		}
		enabled := *rule
		return &enabled, nil
	}

	return nil, fmt.Errorf("suppression rule %s not found", idOrHash)
}

// ListSuppressions returns a copy of all suppression rules
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	return sm.rulesCopy()
}

// CleanupExpired removes expired suppression rules
func (sm *SuppressionManager) CleanupExpired() (int, error) {
	now := sm.now()
	active := make([]SuppressionRule, 0, len(sm.config.Rules))
	for _, rule := range sm.config.Rules {
		if !rule.Expired(now) {
			active = append(active, rule)
		}
	}

	removed := len(sm.config.Rules) - len(active)
	if removed == 0 {
		return 0, nil
	}
	if err := sm.commit(active); err != nil {
		return 0, err
	}
	return removed, nil
}

func (sm *SuppressionManager) rulesCopy() []SuppressionRule {
	out := make([]SuppressionRule, len(sm.config.Rules))
	copy(out, sm.config.Rules)
	return out
}

// commit saves rules as the new rule set. The previous set stays in effect when the
// file can't be written.
func (sm *SuppressionManager) commit(rules []SuppressionRule) error {
	previous := sm.config.Rules
	sm.config.Rules = rules
	if err := sm.saveConfig(); err != nil {
		sm.config.Rules = previous
		return err
	}
	return nil
}

// saveConfig saves the suppression configuration to file
func (sm *SuppressionManager) saveConfig() error {
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal suppression config: %w", err)
	}

	dir := filepath.Dir(sm.configPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(sm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}

	return nil
}

// SetEnabled enables or disables the suppression manager
func (sm *SuppressionManager) SetEnabled(enabled bool) {
	sm.enabled = enabled
}

// IsEnabled returns whether the suppression manager is enabled
func (sm *SuppressionManager) IsEnabled() bool {
	return sm.enabled
}

// GetConfigPath returns the path to the suppression config file
func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}
