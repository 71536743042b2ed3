package main

import (
	"os"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/interview"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [service-url]",
	Short: "Run an interview in the terminal",
	Long: `Starts an interview against a decision service. Every answer is sent with the
previous ones and the service replies with the next question or a conclusion.

With --local the built-in reference engine decides in process.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{}
		opts.ServiceURL, _ = cmd.Flags().GetString("service")
		if !cmd.Flags().Changed("service") && len(args) > 0 {
			opts.ServiceURL = args[0]
		}
		opts.Local, _ = cmd.Flags().GetBool("local")
		opts.Bank, _ = cmd.Flags().GetString("bank")
		opts.Locale, _ = cmd.Flags().GetString("locale")
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.NoBanner, _ = cmd.Flags().GetBool("no-banner")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunInterview(ctx, opts, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("service", "s", cli.EnvOr(cli.EnvServiceURL, cli.DefaultServiceURL), "Decision service URL (env "+cli.EnvServiceURL+")")
	runCmd.Flags().Bool("local", false, "Decide in process with the reference engine")
	runCmd.Flags().String("bank", cli.EnvOr(cli.EnvBank, ""), "Bank for --local: builtin:<name>, a YAML/JSON file or a directory")
	runCmd.Flags().StringP("locale", "l", cli.EnvOr(cli.EnvLocale, "vi"), "Interface language: vi or en (env "+cli.EnvLocale+")")
	runCmd.Flags().Duration("timeout", cli.EnvDuration(cli.EnvTimeout, interview.DefaultRequestTimeout), "Bound on each round trip; 0 disables (env "+cli.EnvTimeout+")")
	runCmd.Flags().Bool("json", false, "Headless mode: NDJSON events out, one answer per line in")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	runCmd.Flags().String("metrics-addr", "", "Serve interview metrics on this address (e.g. :9090)")
}
