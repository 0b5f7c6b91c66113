// spscan audits access-control state across a SharePoint tenant: sites,
// libraries, items, and sharing links, exported as one flat CSV.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spscan/application"
	"spscan/domain/audit"
	"spscan/domain/contracts"
	"spscan/infrastructure/config"
	"spscan/infrastructure/export"
	"spscan/infrastructure/spclient"
	"spscan/infrastructure/store"
	"spscan/logging"
	"spscan/spauth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := audit.DefaultParameters()

	var (
		output            string
		externalLinksOnly bool
		includeInherited  bool
		pageSize          int
		skipHidden        bool
		dbPath            string
		retries           int
		retryDelay        int
	)

	cmd := &cobra.Command{
		Use:   "spscan [tenant-url]",
		Short: "Audit SharePoint tenant access control",
		Long: `spscan walks a SharePoint tenant site by site, collecting group
memberships, direct user access, unique permission assignments on libraries
and items, and ad-hoc sharing links on files. Results are normalized into one
flat record shape and exported as CSV.

The tenant root URL comes from the positional argument or SP_TENANT_URL.
Credentials are read from SP_TENANT_ID, SP_CLIENT_ID, SP_CERT_PATH and
SP_CERT_PASSWORD (a .env file in the working directory is honored).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional; real environment variables win over .env entries.
			_ = godotenv.Load()

			appConfig := config.LoadAppConfigFromEnv()
			logging.SetDefault(logging.NewLogger(appConfig.Logging))
			logger := logging.Default().WithComponent("main")

			tenantURL := appConfig.TenantURL
			if len(args) > 0 {
				tenantURL = args[0]
			}
			if tenantURL == "" {
				return fmt.Errorf("tenant root URL required (positional argument or SP_TENANT_URL)")
			}

			parameters := &audit.Parameters{
				SkipHidden:        skipHidden,
				IncludeInherited:  includeInherited,
				ExternalLinksOnly: externalLinksOnly,
				PageSize:          pageSize,
				MaxRetries:        retries,
				RetryDelay:        retryDelay,
			}
			if err := parameters.Validate(audit.DefaultApiConstraints()); err != nil {
				return fmt.Errorf("invalid scan parameters: %w", err)
			}

			authConfig, err := spauth.FromEnv()
			if err != nil {
				return err
			}

			if output == "" {
				output = export.DefaultPath(time.Now())
			}

			var runStore contracts.RunStore
			if dbPath == "" {
				dbPath = appConfig.DBPath
			}
			if dbPath != "" {
				db, err := store.New(store.DefaultConfig(dbPath))
				if err != nil {
					return fmt.Errorf("open run store: %w", err)
				}
				repository := store.NewRunRepository(db)
				defer repository.Close()
				runStore = repository
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			directory := spclient.NewTenantClient(authConfig, tenantURL, parameters)
			service := application.NewAuditService(directory, export.NewCSVExporter(), runStore, parameters)

			logger.Info("Starting tenant audit",
				"tenant_url", tenantURL,
				"output", output,
				"external_links_only", externalLinksOnly,
				"include_inherited", includeInherited)

			run, err := service.Execute(ctx, tenantURL, output)
			if err != nil {
				logger.Error("Audit aborted", "run_id", run.ID, "state", string(run.State), "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV path (default: timestamped file in the working directory)")
	cmd.Flags().BoolVar(&externalLinksOnly, "external-links-only", false, "only report external access and sharing links; skips the site-level membership pass")
	cmd.Flags().BoolVar(&includeInherited, "include-inherited", false, "also report assignments on items that inherit permissions")
	cmd.Flags().IntVar(&pageSize, "page-size", defaults.PageSize, "items fetched per page while walking libraries")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", defaults.SkipHidden, "skip hidden libraries")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite path for run persistence (default: SPSCAN_DB_PATH, empty disables)")
	cmd.Flags().IntVar(&retries, "retries", defaults.MaxRetries, "retry attempts per remote call")
	cmd.Flags().IntVar(&retryDelay, "retry-delay", defaults.RetryDelay, "delay between retries in milliseconds")

	return cmd
}
