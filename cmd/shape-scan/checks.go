// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"shape-scan/internal/core"
	"shape-scan/internal/help"

	"github.com/spf13/cobra"
)

func (a *app) checksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks [name]",
		Short: "List the available checks or describe one",
		Long: `List the available checks (result categories) with their rules, including
rules added or changed in the configuration file.

Examples:
  # List all checks
  shape-scan checks

  # Show the rules behind the times check
  shape-scan checks times`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := core.BuildRegistry(nil, a.cfg, a.cfg.GetProfile(a.profile))
			if err != nil {
				return err
			}

			h := help.NewSystem(a.stdout, a.settings.NoColor)
			if len(args) == 0 {
				h.ListChecks(registry)
				return nil
			}
			return h.ShowCheckHelp(registry, args[0])
		},
	}
}
