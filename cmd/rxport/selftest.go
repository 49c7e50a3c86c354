package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rxport/internal/selftest"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Run the built-in conversion table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := cmd.Flags().GetStringSlice("group")
		if err != nil {
			return fmt.Errorf("failed to get group flag: %w", err)
		}
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		list, err := cmd.Flags().GetBool("list")
		if err != nil {
			return fmt.Errorf("failed to get list flag: %w", err)
		}
		if list {
			for _, c := range selftest.Cases {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		}

		tracing, err := setupTracing(cmd)
		if err != nil {
			return err
		}

		runner := selftest.NewRunner(nil, selftest.RunnerConfig{
			Filter:  groups,
			Output:  cmd.OutOrStdout(),
			Verbose: verbose,
		})
		res := runner.Run(cmd.Context())
		tracing.finish(!res.OK())
		if !res.OK() {
			return errReported
		}
		return nil
	},
}

func init() {
	selftestCmd.Flags().StringSlice("group", nil, "only run these groups (repeatable)")
	selftestCmd.Flags().BoolP("verbose", "v", false, "print conversion steps of failing cases")
	selftestCmd.Flags().Bool("list", false, "list the cases instead of running them")
}
