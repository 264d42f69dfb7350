package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var workspaceColumns = []output.Column{
	{Header: "WORKSPACE ID", Path: "workspaceId"},
	{Header: "NAME", Path: "name"},
	{Header: "DESCRIPTION", Path: "description"},
}

func newWorkspacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Manage workspaces in a container",
	}
	cmd.AddCommand(
		newWorkspacesListCmd(),
		newWorkspacesGetCmd(),
		newWorkspacesCreateCmd(),
		newWorkspacesUpdateCmd(),
		newWorkspacesDeleteCmd(),
		newWorkspacesCreateVersionCmd(),
	)
	return cmd
}

func newWorkspacesListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the workspaces in a container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Container()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			var workspaces []*tagmanager.Workspace
			err = svc.Accounts.Containers.Workspaces.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListWorkspacesResponse) error {
					workspaces = append(workspaces, page.Workspace...)
					return nil
				})
			if err != nil {
				return apiError("failed to list workspaces", err)
			}
			return renderList(workspaces, workspaceColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newWorkspacesGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get WORKSPACE_ID",
		Short: "Get a single workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.WorkspaceID = args[0]
			path, err := scope.Workspace()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			workspace, err := svc.Accounts.Containers.Workspaces.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get workspace", err)
			}
			return renderObject(workspace, workspaceColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newWorkspacesCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a workspace from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Container()
			if err != nil {
				return err
			}
			workspace, err := gtm.LoadResource[tagmanager.Workspace](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Create(parent, workspace).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create workspace", err)
			}
			return renderObject(created, workspaceColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newWorkspacesUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update WORKSPACE_ID",
		Short: "Update a workspace from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.WorkspaceID = args[0]
			path, err := scope.Workspace()
			if err != nil {
				return err
			}
			workspace, err := gtm.LoadResource[tagmanager.Workspace](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Update(path, workspace).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, workspace.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update workspace", err)
			}
			return renderObject(updated, workspaceColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newWorkspacesDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete WORKSPACE_ID",
		Short: "Delete a workspace and its pending changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.WorkspaceID = args[0]
			path, err := scope.Workspace()
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
			if err := svc.Accounts.Containers.Workspaces.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete workspace", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newWorkspacesCreateVersionCmd() *cobra.Command {
	var (
		scope gtm.Scope
		name  string
		notes string
	)
	cmd := &cobra.Command{
		Use:   "create-version WORKSPACE_ID",
		Short: "Snapshot a workspace into a new container version",
		Long: `Snapshot the workspace into a new container version. The workspace's
pending changes move into the version and the workspace itself is deleted
on success; publish the version with 'gtmctl versions publish'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.WorkspaceID = args[0]
			path, err := scope.Workspace()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			options := &tagmanager.CreateContainerVersionRequestVersionOptions{
				Name:  name,
				Notes: notes,
			}
			resp, err := svc.Accounts.Containers.Workspaces.CreateVersion(path, options).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create version", err)
			}
			if resp.CompilerError {
				return errors.New("version not created: the workspace has compiler errors")
			}
			return renderObject(resp.ContainerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().StringVar(&name, "name", "", "Name for the new version")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the new version")
	return cmd
}

func init() {
	rootCmd.AddCommand(newWorkspacesCmd())
}
