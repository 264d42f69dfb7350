package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var permissionColumns = []output.Column{
	{Header: "EMAIL", Path: "emailAddress"},
	{Header: "ACCOUNT ACCESS", Path: "accountAccess.permission"},
	{Header: "PATH", Path: "path"},
}

func newPermissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Manage user permissions on an account",
	}
	cmd.AddCommand(
		newPermissionsListCmd(),
		newPermissionsGetCmd(),
		newPermissionsCreateCmd(),
		newPermissionsUpdateCmd(),
		newPermissionsDeleteCmd(),
	)
	return cmd
}

func newPermissionsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the user permissions on an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Account()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			var permissions []*tagmanager.UserPermission
			err = svc.Accounts.UserPermissions.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListUserPermissionsResponse) error {
					permissions = append(permissions, page.UserPermission...)
					return nil
				})
			if err != nil {
				return apiError("failed to list permissions", err)
			}
			return renderList(permissions, permissionColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	return cmd
}

func newPermissionsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get PERMISSION_ID",
		Short: "Get a single user permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Permission(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			permission, err := svc.Accounts.UserPermissions.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get permission", err)
			}
			return renderObject(permission, permissionColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	return cmd
}

func newPermissionsCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Invite a user to the account from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Account()
			if err != nil {
				return err
			}
			permission, err := gtm.LoadResource[tagmanager.UserPermission](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.UserPermissions.Create(parent, permission).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create permission", err)
			}
			return renderObject(created, permissionColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newPermissionsUpdateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "update PERMISSION_ID",
		Short: "Update a user permission from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Permission(args[0])
			if err != nil {
				return err
			}
			permission, err := gtm.LoadResource[tagmanager.UserPermission](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			updated, err := svc.Accounts.UserPermissions.Update(path, permission).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to update permission", err)
			}
			return renderObject(updated, permissionColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newPermissionsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete PERMISSION_ID",
		Short: "Remove a user from the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Permission(args[0])
			if err != nil {
				return err
			}
			if err := confirm(fmt.Sprintf("delete %s", path), force); err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Accounts.UserPermissions.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete permission", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addAccountFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPermissionsCmd())
}
