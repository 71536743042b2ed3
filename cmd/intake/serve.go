package main

import (
	"github.com/aretw0/intake/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reference decision service",
	Long: `Serves the next-question endpoint backed by a question bank, the result records
it concludes with, and the OpenAPI document describing both.

Set ` + cli.EnvResultKey + ` to a 32-byte key (base64 or hex) to encrypt the answers
kept in result records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ServeOptions{}
		port, _ := cmd.Flags().GetString("port")
		opts.Addr = ":" + port
		opts.Bank, _ = cmd.Flags().GetString("bank")
		opts.Endpoint, _ = cmd.Flags().GetString("endpoint")
		opts.RedisURL, _ = cmd.Flags().GetString("redis")
		opts.ResultTTL, _ = cmd.Flags().GetDuration("result-ttl")
		opts.Metrics, _ = cmd.Flags().GetBool("metrics")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		opts.Redact, _ = cmd.Flags().GetStringSlice("redact")
		opts.ResultKey = cli.EnvOr(cli.EnvResultKey, "")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "5000", "Port to listen on")
	serveCmd.Flags().String("bank", cli.EnvOr(cli.EnvBank, ""), "builtin:<name>, a YAML/JSON file or a directory of bank documents")
	serveCmd.Flags().String("endpoint", "", "Path of the next-question endpoint")
	serveCmd.Flags().String("redis", cli.EnvOr(cli.EnvRedisURL, ""), "Keep result records in Redis (env "+cli.EnvRedisURL+")")
	serveCmd.Flags().Duration("result-ttl", cli.DefaultResultTTL, "How long result records are kept")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	serveCmd.Flags().StringSlice("redact", nil, "Regexp of answer variables masked in stored records (repeatable)")
}
