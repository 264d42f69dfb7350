package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var containerColumns = []output.Column{
	{Header: "CONTAINER ID", Path: "containerId"},
	{Header: "NAME", Path: "name"},
	{Header: "PUBLIC ID", Path: "publicId"},
	{Header: "USAGE CONTEXT", Path: "usageContext"},
}

func newContainersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "Manage containers in an account",
	}
	cmd.AddCommand(
		newContainersListCmd(),
		newContainersGetCmd(),
		newContainersCreateCmd(),
		newContainersUpdateCmd(),
		newContainersDeleteCmd(),
	)
	return cmd
}

func newContainersListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the containers in an account",
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
			var containers []*tagmanager.Container
			err = svc.Accounts.Containers.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListContainersResponse) error {
					containers = append(containers, page.Container...)
					return nil
				})
			if err != nil {
				return apiError("failed to list containers", err)
			}
			return renderList(containers, containerColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	return cmd
}

func newContainersGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get CONTAINER_ID",
		Short: "Get a single container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.ContainerID = args[0]
			path, err := scope.Container()
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			container, err := svc.Accounts.Containers.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get container", err)
			}
			return renderObject(container, containerColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	return cmd
}

func newContainersCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a container from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Account()
			if err != nil {
				return err
			}
			container, err := gtm.LoadResource[tagmanager.Container](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Create(parent, container).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create container", err)
			}
			return renderObject(created, containerColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newContainersUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update CONTAINER_ID",
		Short: "Update a container from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.ContainerID = args[0]
			path, err := scope.Container()
			if err != nil {
				return err
			}
			container, err := gtm.LoadResource[tagmanager.Container](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Update(path, container).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, container.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update container", err)
			}
			return renderObject(updated, containerColumns)
		},
	}
	addAccountFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newContainersDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete CONTAINER_ID",
		Short: "Delete a container and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope.ContainerID = args[0]
			path, err := scope.Container()
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
			if err := svc.Accounts.Containers.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete container", err)
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
	rootCmd.AddCommand(newContainersCmd())
}
