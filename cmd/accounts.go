package cmd

import (
	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var accountColumns = []output.Column{
	{Header: "ACCOUNT ID", Path: "accountId"},
	{Header: "NAME", Path: "name"},
	{Header: "PATH", Path: "path"},
}

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage Tag Manager accounts",
	}
	cmd.AddCommand(newAccountsListCmd(), newAccountsGetCmd(), newAccountsUpdateCmd())
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	var includeGoogleTags bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the accounts accessible to the caller",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.List()
			if includeGoogleTags {
				call.IncludeGoogleTags(true)
			}
			var accounts []*tagmanager.Account
			err = call.Pages(cmd.Context(), func(page *tagmanager.ListAccountsResponse) error {
				accounts = append(accounts, page.Account...)
				return nil
			})
			if err != nil {
				return apiError("failed to list accounts", err)
			}
			return renderList(accounts, accountColumns)
		},
	}
	cmd.Flags().BoolVar(&includeGoogleTags, "include-google-tags", false, "Also list Google Tag accounts")
	return cmd
}

func newAccountsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Get a single account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := gtm.Scope{AccountID: args[0]}.Account()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			account, err := svc.Accounts.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get account", err)
			}
			return renderObject(account, accountColumns)
		},
	}
}

func newAccountsUpdateCmd() *cobra.Command {
	var (
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update ACCOUNT_ID",
		Short: "Update an account from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := gtm.Scope{AccountID: args[0]}.Account()
			if err != nil {
				return err
			}
			account, err := gtm.LoadResource[tagmanager.Account](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Update(path, account).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, account.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update account", err)
			}
			return renderObject(updated, accountColumns)
		},
	}
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func init() {
	rootCmd.AddCommand(newAccountsCmd())
}
