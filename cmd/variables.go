package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var variableColumns = []output.Column{
	{Header: "VARIABLE ID", Path: "variableId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
}

func newVariablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variables",
		Short: "Manage user-defined variables in a workspace",
	}
	cmd.AddCommand(
		newVariablesListCmd(),
		newVariablesGetCmd(),
		newVariablesCreateCmd(),
		newVariablesUpdateCmd(),
		newVariablesDeleteCmd(),
		newVariablesRevertCmd(),
	)
	return cmd
}

func newVariablesListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the variables in a workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			var variables []*tagmanager.Variable
			err = svc.Accounts.Containers.Workspaces.Variables.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListVariablesResponse) error {
					variables = append(variables, page.Variable...)
					return nil
				})
			if err != nil {
				return apiError("failed to list variables", err)
			}
			return renderList(variables, variableColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newVariablesGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get VARIABLE_ID",
		Short: "Get a single variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Variable(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			variable, err := svc.Accounts.Containers.Workspaces.Variables.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get variable", err)
			}
			return renderObject(variable, variableColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newVariablesCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a variable from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			variable, err := gtm.LoadResource[tagmanager.Variable](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Variables.Create(parent, variable).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create variable", err)
			}
			return renderObject(created, variableColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newVariablesUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update VARIABLE_ID",
		Short: "Update a variable from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Variable(args[0])
			if err != nil {
				return err
			}
			variable, err := gtm.LoadResource[tagmanager.Variable](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Variables.Update(path, variable).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, variable.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update variable", err)
			}
			return renderObject(updated, variableColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newVariablesDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete VARIABLE_ID",
		Short: "Delete a variable from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Variable(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Variables.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete variable", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newVariablesRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert VARIABLE_ID",
		Short: "Revert a variable to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Variable(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Variables.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert variable", err)
			}
			if resp.Variable == nil {
				logger.Success("Variable %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Variable, variableColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newVariablesCmd())
}
