package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var tagColumns = []output.Column{
	{Header: "TAG ID", Path: "tagId"},
	{Header: "NAME", Path: "name"},
	{Header: "TYPE", Path: "type"},
	{Header: "FIRING TRIGGERS", Path: "firingTriggerId"},
}

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage tags in a workspace",
	}
	cmd.AddCommand(
		newTagsListCmd(),
		newTagsGetCmd(),
		newTagsCreateCmd(),
		newTagsUpdateCmd(),
		newTagsDeleteCmd(),
		newTagsRevertCmd(),
	)
	return cmd
}

func newTagsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tags in a workspace",
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
			var tags []*tagmanager.Tag
			err = svc.Accounts.Containers.Workspaces.Tags.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListTagsResponse) error {
					tags = append(tags, page.Tag...)
					return nil
				})
			if err != nil {
				return apiError("failed to list tags", err)
			}
			return renderList(tags, tagColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTagsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get TAG_ID",
		Short: "Get a single tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Tag(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			tag, err := svc.Accounts.Containers.Workspaces.Tags.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get tag", err)
			}
			return renderObject(tag, tagColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTagsCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tag from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			tag, err := gtm.LoadResource[tagmanager.Tag](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Tags.Create(parent, tag).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create tag", err)
			}
			return renderObject(created, tagColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newTagsUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update TAG_ID",
		Short: "Update a tag from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Tag(args[0])
			if err != nil {
				return err
			}
			tag, err := gtm.LoadResource[tagmanager.Tag](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Tags.Update(path, tag).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, tag.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update tag", err)
			}
			return renderObject(updated, tagColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newTagsDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete TAG_ID",
		Short: "Delete a tag from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Tag(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Tags.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete tag", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newTagsRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert TAG_ID",
		Short: "Revert a tag to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Tag(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Tags.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert tag", err)
			}
			if resp.Tag == nil {
				logger.Success("Tag %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Tag, tagColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newTagsCmd())
}
