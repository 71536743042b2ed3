package main

import (
	"fmt"

	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bank]",
	Short: "Check a question bank for consistency",
	Long: `Compiles a bank (builtin:<name>, a YAML/JSON file or a directory of bank documents)
and reports duplicate or empty variables, choice questions without options,
unparsable conditions and conditions naming unknown variables.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) > 0 {
			ref = args[0]
		}
		bank, err := cli.LoadBank(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bank %q is valid: %d questions, %d conclusions ✅\n",
			bank.Name, len(bank.Questions), len(bank.Conclusions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
