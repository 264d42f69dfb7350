package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var clientColumns = []output.Column{
	{Header: "CLIENT ID", Path: "clientId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
	{Header: "PRIORITY", Path: "priority"},
}

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage server-side clients in a workspace",
	}
	cmd.AddCommand(
		newClientsListCmd(),
		newClientsGetCmd(),
		newClientsCreateCmd(),
		newClientsUpdateCmd(),
		newClientsDeleteCmd(),
		newClientsRevertCmd(),
	)
	return cmd
}

func newClientsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the clients in a workspace",
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
			var clients []*tagmanager.Client
			err = svc.Accounts.Containers.Workspaces.Clients.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListClientsResponse) error {
					clients = append(clients, page.Client...)
					return nil
				})
			if err != nil {
				return apiError("failed to list clients", err)
			}
			return renderList(clients, clientColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newClientsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get CLIENT_ID",
		Short: "Get a single client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Client(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			client, err := svc.Accounts.Containers.Workspaces.Clients.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get client", err)
			}
			return renderObject(client, clientColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newClientsCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			client, err := gtm.LoadResource[tagmanager.Client](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Clients.Create(parent, client).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create client", err)
			}
			return renderObject(created, clientColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newClientsUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update CLIENT_ID",
		Short: "Update a client from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Client(args[0])
			if err != nil {
				return err
			}
			client, err := gtm.LoadResource[tagmanager.Client](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Clients.Update(path, client).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, client.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update client", err)
			}
			return renderObject(updated, clientColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newClientsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete CLIENT_ID",
		Short: "Delete a client from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Client(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Clients.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete client", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newClientsRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert CLIENT_ID",
		Short: "Revert a client to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Client(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Clients.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert client", err)
			}
			if resp.Client == nil {
				logger.Success("Client %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Client, clientColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newClientsCmd())
}
