package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var folderColumns = []output.Column{
	{Header: "FOLDER ID", Path: "folderId"},
	{Header: "NAME", Path: "name"},
	{Header: "NOTES", Path: "notes"},
}

// folderEntityRow flattens the mixed tag/trigger/variable contents of a
// folder into one table shape.
type folderEntityRow struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

var folderEntityColumns = []output.Column{
	{Header: "KIND", Path: "kind"},
	{Header: "ID", Path: "id"},
	{Header: "NAME", Path: "name"},
}

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Manage folders in a workspace",
	}
	cmd.AddCommand(
		newFoldersListCmd(),
		newFoldersGetCmd(),
		newFoldersCreateCmd(),
		newFoldersUpdateCmd(),
		newFoldersDeleteCmd(),
		newFoldersRevertCmd(),
		newFoldersEntitiesCmd(),
	)
	return cmd
}

func newFoldersListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the folders in a workspace",
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
			var folders []*tagmanager.Folder
			err = svc.Accounts.Containers.Workspaces.Folders.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListFoldersResponse) error {
					folders = append(folders, page.Folder...)
					return nil
				})
			if err != nil {
				return apiError("failed to list folders", err)
			}
			return renderList(folders, folderColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newFoldersGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get FOLDER_ID",
		Short: "Get a single folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Folder(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			folder, err := svc.Accounts.Containers.Workspaces.Folders.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get folder", err)
			}
			return renderObject(folder, folderColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newFoldersCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a folder from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			folder, err := gtm.LoadResource[tagmanager.Folder](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Folders.Create(parent, folder).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create folder", err)
			}
			return renderObject(created, folderColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newFoldersUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update FOLDER_ID",
		Short: "Update a folder from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Folder(args[0])
			if err != nil {
				return err
			}
			folder, err := gtm.LoadResource[tagmanager.Folder](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Folders.Update(path, folder).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, folder.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update folder", err)
			}
			return renderObject(updated, folderColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newFoldersDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete FOLDER_ID",
		Short: "Delete a folder from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Folder(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Folders.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete folder", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newFoldersRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert FOLDER_ID",
		Short: "Revert a folder to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Folder(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Folders.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert folder", err)
			}
			if resp.Folder == nil {
				logger.Success("Folder %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Folder, folderColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func newFoldersEntitiesCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "entities FOLDER_ID",
		Short: "List the tags, triggers and variables in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Folder(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			entities := &tagmanager.FolderEntities{}
			err = svc.Accounts.Containers.Workspaces.Folders.Entities(path).
				Pages(cmd.Context(), func(page *tagmanager.FolderEntities) error {
					entities.Tag = append(entities.Tag, page.Tag...)
					entities.Trigger = append(entities.Trigger, page.Trigger...)
					entities.Variable = append(entities.Variable, page.Variable...)
					return nil
				})
			if err != nil {
				return apiError("failed to list folder entities", err)
			}
			format, err := resolveFormat()
			if err != nil {
				return err
			}
			if format != output.FormatTable {
				return output.WriteObject(os.Stdout, format, entities)
			}
			var rows []folderEntityRow
			for _, tag := range entities.Tag {
				rows = append(rows, folderEntityRow{Kind: "tag", ID: tag.TagId, Name: tag.Name})
			}
			for _, trigger := range entities.Trigger {
				rows = append(rows, folderEntityRow{Kind: "trigger", ID: trigger.TriggerId, Name: trigger.Name})
			}
			for _, variable := range entities.Variable {
				rows = append(rows, folderEntityRow{Kind: "variable", ID: variable.VariableId, Name: variable.Name})
			}
			return output.WriteTable(os.Stdout, folderEntityColumns, rows)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func init() {
	rootCmd.AddCommand(newFoldersCmd())
}
