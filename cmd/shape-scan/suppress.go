// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os/user"
	"text/tabwriter"
	"time"

	"shape-scan/internal/suppressions"

	"github.com/spf13/cobra"
)

func (a *app) suppressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suppress",
		Short: "Manage suppression rules",
		Long: `Manage the suppression rules that hide known findings from scan output.

Rules identify a finding by a hash of its category and value; the value itself is never
stored in the suppression file.`,
	}

	cmd.AddCommand(a.suppressAddCmd())
	cmd.AddCommand(a.suppressListCmd())
	cmd.AddCommand(a.suppressEnableCmd())
	cmd.AddCommand(a.suppressRemoveCmd())
	cmd.AddCommand(a.suppressCleanupCmd())
	return cmd
}

func (a *app) suppressionManager() (*suppressions.SuppressionManager, error) {
	return suppressions.NewSuppressionManager(a.suppressionFile)
}

func (a *app) suppressAddCmd() *cobra.Command {
	var (
		category  string
		value     string
		reason    string
		createdBy string
		expiresIn time.Duration
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Suppress one finding",
		Example: `  shape-scan suppress add --category emails --value ops@example.com --reason "shared mailbox"
  shape-scan suppress add --category credit_cards --value "4111 1111 1111 1111" --reason "test card" --expires-in 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" || value == "" {
				return errors.New("--category and --value are required")
			}
			if reason == "" {
				return errors.New("--reason is required")
			}
			if createdBy == "" {
				createdBy = currentUser()
			}

			var expiresAt *time.Time
			if expiresIn > 0 {
				t := time.Now().Add(expiresIn)
				expiresAt = &t
			}

			manager, err := a.suppressionManager()
			if err != nil {
				return err
			}
			rule, err := manager.AddSuppression(category, value, reason, createdBy, expiresAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Added suppression rule %s\n", rule.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "Category of the finding, e.g. emails")
	f.StringVar(&value, "value", "", "Finding as printed by scan")
	f.StringVar(&reason, "reason", "", "Why the finding is acceptable")
	f.StringVar(&createdBy, "created-by", "", "Author of the rule (default: current user)")
	f.DurationVar(&expiresIn, "expires-in", 0, "Expire the rule after this duration, e.g. 168h")
	return cmd
}

func (a *app) suppressListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List suppression rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.suppressionManager()
			if err != nil {
				return err
			}

			rules := manager.ListSuppressions()
			if len(rules) == 0 {
				fmt.Fprintln(a.stdout, "No suppression rules found.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tSTATUS\tEXPIRES\tREASON")
			for _, rule := range rules {
				expires := "never"
				if rule.ExpiresAt != nil {
					expires = rule.ExpiresAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rule.ID, rule.Category, ruleStatus(rule, now), expires, rule.Reason)
			}
			return w.Flush()
		},
	}
}

func ruleStatus(rule suppressions.SuppressionRule, now time.Time) string {
	switch {
	case rule.Expired(now):
		return "expired"
	case !rule.Enabled:
		return "disabled"
	default:
		return "active"
	}
}

func (a *app) suppressEnableCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "enable <id|hash>",
		Short: "Enable a suppression rule, e.g. one written by scan --generate-suppressions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.suppressionManager()
			if err != nil {
				return err
			}
			rule, err := manager.EnableSuppression(args[0], reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Enabled suppression rule %s\n", rule.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Replace the rule's reason")
	return cmd
}

func (a *app) suppressRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a suppression rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.suppressionManager()
			if err != nil {
				return err
			}
			if err := manager.RemoveSuppression(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed suppression rule %s\n", args[0])
			return nil
		},
	}
}

func (a *app) suppressCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired suppression rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.suppressionManager()
			if err != nil {
				return err
			}
			removed, err := manager.CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Removed %d expired suppression rules\n", removed)
			return nil
		},
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
