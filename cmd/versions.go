package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var versionColumns = []output.Column{
	{Header: "VERSION ID", Path: "containerVersionId"},
	{Header: "NAME", Path: "name"},
	{Header: "DELETED", Path: "deleted"},
	{Header: "FINGERPRINT", Path: "fingerprint"},
}

func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage container versions",
	}
	cmd.AddCommand(
		newVersionsGetCmd(),
		newVersionsLiveCmd(),
		newVersionsPublishCmd(),
		newVersionsDeleteCmd(),
		newVersionsUndeleteCmd(),
		newVersionsUpdateCmd(),
		newVersionsSetLatestCmd(),
	)
	return cmd
}

func newVersionsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get VERSION_ID",
		Short: "Get a container version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			containerVersion, err := svc.Accounts.Containers.Versions.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get version", err)
			}
			return renderObject(containerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newVersionsLiveCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Get the published container version",
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
			containerVersion, err := svc.Accounts.Containers.Versions.Live(parent).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get live version", err)
			}
			return renderObject(containerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newVersionsPublishCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
		force       bool
	)
	cmd := &cobra.Command{
		Use:   "publish VERSION_ID",
		Short: "Publish a container version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
			if err != nil {
				return err
			}
			if err := confirm(fmt.Sprintf("publish %s", path), force); err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Versions.Publish(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to publish version", err)
			}
			if resp.CompilerError {
				return errors.New("publish failed: the container version has compiler errors")
			}
			logger.Success("Published %s", path)
			return renderObject(resp.ContainerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newVersionsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete VERSION_ID",
		Short: "Delete a container version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
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
			if err := svc.Accounts.Containers.Versions.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete version", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newVersionsUndeleteCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "undelete VERSION_ID",
		Short: "Restore a deleted container version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			containerVersion, err := svc.Accounts.Containers.Versions.Undelete(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to undelete version", err)
			}
			return renderObject(containerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newVersionsUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update VERSION_ID",
		Short: "Update the name or notes of a container version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
			if err != nil {
				return err
			}
			containerVersion, err := gtm.LoadResource[tagmanager.ContainerVersion](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Versions.Update(path, containerVersion).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, containerVersion.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update version", err)
			}
			return renderObject(updated, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newVersionsSetLatestCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "set-latest VERSION_ID",
		Short: "Mark a container version as latest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Version(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			containerVersion, err := svc.Accounts.Containers.Versions.SetLatest(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to set latest version", err)
			}
			return renderObject(containerVersion, versionColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func init() {
	rootCmd.AddCommand(newVersionsCmd())
}
