package main

import (
	"os"

	"hospital-management/cmd/bootstrap"
	"hospital-management/config"
	"hospital-management/internal/gateway"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "hms",
		Short:         "Hospital management services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file, the process environment overrides it")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(gatewayCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(checkEnvCmd())
	rootCmd.AddCommand(smokeCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and sets up the process logger.
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfigFrom(envFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, bootstrap.NewLogger(cfg.App), nil
}

func serveCmd() *cobra.Command {
	var opts bootstrap.ServeOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run one or more services in this process",
		Example: `  hms serve --service=all
  hms serve --service=doctor,appointment --auto-migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg, log, opts)
			if err != nil {
				return err
			}

			// Run the application
			return app.Run()
		},
	}
	cmd.Flags().StringSliceVar(&opts.Services, "service", []string{"all"}, "Services to serve, comma separated, or all")
	cmd.Flags().BoolVar(&opts.AutoMigrate, "auto-migrate", false, "Apply pending migrations before starting")
	return cmd
}

func gatewayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gateway",
		Short: "Run the API gateway in front of the services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			g, err := gateway.New(cfg.Gateway, log)
			if err != nil {
				return err
			}
			return g.Run()
		},
	}
}
