package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var environmentColumns = []output.Column{
	{Header: "ENVIRONMENT ID", Path: "environmentId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
	{Header: "URL", Path: "url"},
}

func newEnvironmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "environments",
		Short: "Manage container environments",
	}
	cmd.AddCommand(
		newEnvironmentsListCmd(),
		newEnvironmentsGetCmd(),
		newEnvironmentsCreateCmd(),
		newEnvironmentsUpdateCmd(),
		newEnvironmentsDeleteCmd(),
		newEnvironmentsReauthorizeCmd(),
	)
	return cmd
}

func newEnvironmentsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the environments in a container",
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
			var environments []*tagmanager.Environment
			err = svc.Accounts.Containers.Environments.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListEnvironmentsResponse) error {
					environments = append(environments, page.Environment...)
					return nil
				})
			if err != nil {
				return apiError("failed to list environments", err)
			}
			return renderList(environments, environmentColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newEnvironmentsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get ENVIRONMENT_ID",
		Short: "Get a single environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Environment(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			environment, err := svc.Accounts.Containers.Environments.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get environment", err)
			}
			return renderObject(environment, environmentColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newEnvironmentsCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an environment from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Container()
			if err != nil {
				return err
			}
			environment, err := gtm.LoadResource[tagmanager.Environment](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Environments.Create(parent, environment).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create environment", err)
			}
			return renderObject(created, environmentColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newEnvironmentsUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update ENVIRONMENT_ID",
		Short: "Update an environment from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Environment(args[0])
			if err != nil {
				return err
			}
			environment, err := gtm.LoadResource[tagmanager.Environment](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Environments.Update(path, environment).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, environment.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update environment", err)
			}
			return renderObject(updated, environmentColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newEnvironmentsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete ENVIRONMENT_ID",
		Short: "Delete an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Environment(args[0])
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
			if err := svc.Accounts.Containers.Environments.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete environment", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newEnvironmentsReauthorizeCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "reauthorize ENVIRONMENT_ID",
		Short: "Rotate the authorization code of an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Environment(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			environment, err := svc.Accounts.Containers.Environments.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get environment", err)
			}
			updated, err := svc.Accounts.Containers.Environments.Reauthorize(path, environment).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to reauthorize environment", err)
			}
			return renderObject(updated, environmentColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func init() {
	rootCmd.AddCommand(newEnvironmentsCmd())
}
