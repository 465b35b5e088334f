package main

import (
	"errors"
	"fmt"
	"time"

	"hospital-management/config"
	"hospital-management/internal/smoke"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func checkEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Report missing or invalid configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := config.CheckEnv(envFile)
			out := cmd.OutOrStdout()

			if len(issues) == 0 {
				fmt.Fprintln(out, "Configuration OK")
				return nil
			}

			for _, issue := range issues {
				level := "WARN "
				if issue.Required {
					level = "ERROR"
				}
				fmt.Fprintf(out, "%s %s %s\n", level, issue.Key, issue.Message)
			}

			required := lo.CountBy(issues, func(i config.EnvIssue) bool { return i.Required })
			if required > 0 {
				return fmt.Errorf("%d required setting(s) missing or invalid", required)
			}
			return nil
		},
	}
}

func smokeCmd() *cobra.Command {
	var opts smoke.Options

	cmd := &cobra.Command{
		Use:     "smoke",
		Short:   "Run HTTP smoke checks against a running deployment",
		Example: "  hms smoke --base-url http://localhost:8000 --email admin@hospital.local --password secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.BaseURL == "" {
				return errors.New("--base-url is required")
			}

			results := smoke.NewRunner(opts).Run(cmd.Context())
			smoke.PrintTable(cmd.OutOrStdout(), results)

			if smoke.Failed(results) {
				return errors.New("smoke checks failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Gateway or service base URL")
	cmd.Flags().StringVar(&opts.HealthPath, "health-path", "/health", "Health endpoint, /api/health for a single service")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Login email, enables the authenticated checks")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Login password")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "Per request timeout")
	return cmd
}
