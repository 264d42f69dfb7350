package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var builtinColumns = []output.Column{
	{Header: "TYPE", Path: "type"},
	{Header: "NAME", Path: "name"},
}

func newBuiltinsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builtins",
		Short: "Manage built-in variables in a workspace",
		Long: `Built-in variables are toggled by type rather than created from a body.
Type names follow the API enum, for example clickClasses or pageUrl.`,
	}
	cmd.AddCommand(
		newBuiltinsListCmd(),
		newBuiltinsEnableCmd(),
		newBuiltinsDisableCmd(),
		newBuiltinsRevertCmd(),
	)
	return cmd
}

func newBuiltinsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the enabled built-in variables",
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
			var builtins []*tagmanager.BuiltInVariable
			err = svc.Accounts.Containers.Workspaces.BuiltInVariables.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListEnabledBuiltInVariablesResponse) error {
					builtins = append(builtins, page.BuiltInVariable...)
					return nil
				})
			if err != nil {
				return apiError("failed to list built-in variables", err)
			}
			return renderList(builtins, builtinColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newBuiltinsEnableCmd() *cobra.Command {
	var (
		scope gtm.Scope
		types []string
	)
	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Enable built-in variables by type",
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
			resp, err := svc.Accounts.Containers.Workspaces.BuiltInVariables.Create(parent).
				Type(types...).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to enable built-in variables", err)
			}
			return renderList(resp.BuiltInVariable, builtinColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringSliceVar(&types, "type", nil, "Built-in variable type (repeatable)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBuiltinsDisableCmd() *cobra.Command {
	var (
		scope gtm.Scope
		types []string
	)
	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Disable built-in variables by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := scope.BuiltInVariables()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			err = svc.Accounts.Containers.Workspaces.BuiltInVariables.Delete(path).
				Type(types...).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to disable built-in variables", err)
			}
			logger.Success("Disabled built-in variables: %s", strings.Join(types, ", "))
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringSliceVar(&types, "type", nil, "Built-in variable type (repeatable)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newBuiltinsRevertCmd() *cobra.Command {
	var (
		scope   gtm.Scope
		varType string
	)
	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Revert a built-in variable to its state in the latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The revert endpoint hangs off the workspace path; the API
			// appends the built_in_variables segment itself.
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := svc.Accounts.Containers.Workspaces.BuiltInVariables.Revert(parent).
				Type(varType).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to revert built-in variable", err)
			}
			if resp.Enabled {
				logger.Success("Built-in variable %s reverted: enabled", varType)
			} else {
				logger.Success("Built-in variable %s reverted: disabled", varType)
			}
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&varType, "type", "", "Built-in variable type")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func init() {
	rootCmd.AddCommand(newBuiltinsCmd())
}
