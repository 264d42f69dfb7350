package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gtmctl/gtmctl/internal/auth"
	"github.com/gtmctl/gtmctl/internal/output"
)

var statusColumns = []output.Column{
	{Header: "AUTHENTICATED", Path: "authenticated"},
	{Header: "METHOD", Path: "method"},
	{Header: "EMAIL", Path: "email"},
	{Header: "EXPIRES AT", Path: "expiresAt"},
	{Header: "NEEDS REFRESH", Path: "needsRefresh"},
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate gtmctl with Google Tag Manager",
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		serviceAccountPath string
		useADC             bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Google Tag Manager",
		Long: `Log in interactively through a browser OAuth flow, or switch to a
non-interactive credential source.

With --service-account the key file is validated, proven usable by minting
a token, and remembered as the active auth method. With --adc the ambient
application default credentials are used instead. Both leave an existing
OAuth login on disk untouched; running 'gtmctl auth login' without flags
switches back to the browser flow.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			switch {
			case serviceAccountPath != "":
				cfg, err := providers.LoginWithServiceAccount(ctx, serviceAccountPath)
				if err != nil {
					return err
				}
				logger.Success("Authenticated as %s (service account)", cfg.ServiceAccountEmail)
				return nil
			case useADC:
				cfg, err := providers.LoginWithADC(ctx)
				if err != nil {
					return err
				}
				if cfg.ServiceAccountEmail != "" {
					logger.Success("Using application default credentials (%s)", cfg.ServiceAccountEmail)
				} else {
					logger.Success("Using application default credentials")
				}
				return nil
			default:
				rec, err := flow.Login(ctx)
				if err != nil {
					return err
				}
				if err := methods.Save(&auth.AuthMethodConfig{Method: auth.MethodOAuth}); err != nil {
					return err
				}
				logger.Success("Logged in as %s", rec.UserEmail)
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&serviceAccountPath, "service-account", "", "Path to a service account key file")
	cmd.Flags().BoolVar(&useADC, "adc", false, "Use application default credentials")
	cmd.MarkFlagsMutuallyExclusive("service-account", "adc")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and delete the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flow.Logout(cmd.Context()); err != nil {
				return err
			}
			if err := methods.Clear(); err != nil {
				return err
			}
			logger.Success("Logged out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credential source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := factory.Status()
			if err != nil {
				return err
			}
			return renderObject(status, statusColumns)
		},
	}
}

func init() {
	rootCmd.AddCommand(newAuthCmd())
}
