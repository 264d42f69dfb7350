package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var transformationColumns = []output.Column{
	{Header: "TRANSFORMATION ID", Path: "transformationId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
}

func newTransformationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transformations",
		Short: "Manage server-side transformations in a workspace",
	}
	cmd.AddCommand(
		newTransformationsListCmd(),
		newTransformationsGetCmd(),
		newTransformationsCreateCmd(),
		newTransformationsUpdateCmd(),
		newTransformationsDeleteCmd(),
		newTransformationsRevertCmd(),
	)
	return cmd
}

func newTransformationsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transformations in a workspace",
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
			var transformations []*tagmanager.Transformation
			err = svc.Accounts.Containers.Workspaces.Transformations.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListTransformationsResponse) error {
					transformations = append(transformations, page.Transformation...)
					return nil
				})
			if err != nil {
				return apiError("failed to list transformations", err)
			}
			return renderList(transformations, transformationColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTransformationsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get TRANSFORMATION_ID",
		Short: "Get a single transformation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Transformation(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			transformation, err := svc.Accounts.Containers.Workspaces.Transformations.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get transformation", err)
			}
			return renderObject(transformation, transformationColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTransformationsCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a transformation from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			transformation, err := gtm.LoadResource[tagmanager.Transformation](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Transformations.Create(parent, transformation).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create transformation", err)
			}
			return renderObject(created, transformationColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newTransformationsUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update TRANSFORMATION_ID",
		Short: "Update a transformation from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Transformation(args[0])
			if err != nil {
				return err
			}
			transformation, err := gtm.LoadResource[tagmanager.Transformation](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Transformations.Update(path, transformation).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, transformation.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update transformation", err)
			}
			return renderObject(updated, transformationColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newTransformationsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete TRANSFORMATION_ID",
		Short: "Delete a transformation from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Transformation(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Transformations.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete transformation", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newTransformationsRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert TRANSFORMATION_ID",
		Short: "Revert a transformation to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Transformation(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Transformations.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert transformation", err)
			}
			if resp.Transformation == nil {
				logger.Success("Transformation %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Transformation, transformationColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newTransformationsCmd())
}
