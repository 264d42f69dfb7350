package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var triggerColumns = []output.Column{
	{Header: "TRIGGER ID", Path: "triggerId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
}

func newTriggersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triggers",
		Short: "Manage triggers in a workspace",
	}
	cmd.AddCommand(
		newTriggersListCmd(),
		newTriggersGetCmd(),
		newTriggersCreateCmd(),
		newTriggersUpdateCmd(),
		newTriggersDeleteCmd(),
		newTriggersRevertCmd(),
	)
	return cmd
}

func newTriggersListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the triggers in a workspace",
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
			var triggers []*tagmanager.Trigger
			err = svc.Accounts.Containers.Workspaces.Triggers.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListTriggersResponse) error {
					triggers = append(triggers, page.Trigger...)
					return nil
				})
			if err != nil {
				return apiError("failed to list triggers", err)
			}
			return renderList(triggers, triggerColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTriggersGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get TRIGGER_ID",
		Short: "Get a single trigger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Trigger(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			trigger, err := svc.Accounts.Containers.Workspaces.Triggers.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get trigger", err)
			}
			return renderObject(trigger, triggerColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTriggersCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a trigger from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			trigger, err := gtm.LoadResource[tagmanager.Trigger](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Triggers.Create(parent, trigger).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create trigger", err)
			}
			return renderObject(created, triggerColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newTriggersUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update TRIGGER_ID",
		Short: "Update a trigger from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Trigger(args[0])
			if err != nil {
				return err
			}
			trigger, err := gtm.LoadResource[tagmanager.Trigger](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Triggers.Update(path, trigger).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, trigger.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update trigger", err)
			}
			return renderObject(updated, triggerColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newTriggersDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete TRIGGER_ID",
		Short: "Delete a trigger from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Trigger(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Triggers.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete trigger", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newTriggersRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert TRIGGER_ID",
		Short: "Revert a trigger to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Trigger(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Triggers.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert trigger", err)
			}
			if resp.Trigger == nil {
				logger.Success("Trigger %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Trigger, triggerColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newTriggersCmd())
}
