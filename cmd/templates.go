package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var templateColumns = []output.Column{
	{Header: "TEMPLATE ID", Path: "templateId"},
	{Header: "NAME", Path: "name"},
	{Header: "FINGERPRINT", Path: "fingerprint"},
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage custom templates in a workspace",
	}
	cmd.AddCommand(
		newTemplatesListCmd(),
		newTemplatesGetCmd(),
		newTemplatesCreateCmd(),
		newTemplatesUpdateCmd(),
		newTemplatesDeleteCmd(),
		newTemplatesRevertCmd(),
	)
	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the custom templates in a workspace",
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
			var templates []*tagmanager.CustomTemplate
			err = svc.Accounts.Containers.Workspaces.Templates.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListTemplatesResponse) error {
					templates = append(templates, page.Template...)
					return nil
				})
			if err != nil {
				return apiError("failed to list templates", err)
			}
			return renderList(templates, templateColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTemplatesGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get TEMPLATE_ID",
		Short: "Get a single custom template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Template(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			template, err := svc.Accounts.Containers.Workspaces.Templates.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get template", err)
			}
			return renderObject(template, templateColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newTemplatesCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a custom template from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			template, err := gtm.LoadResource[tagmanager.CustomTemplate](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Templates.Create(parent, template).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create template", err)
			}
			return renderObject(created, templateColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newTemplatesUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update TEMPLATE_ID",
		Short: "Update a custom template from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Template(args[0])
			if err != nil {
				return err
			}
			template, err := gtm.LoadResource[tagmanager.CustomTemplate](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Templates.Update(path, template).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, template.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update template", err)
			}
			return renderObject(updated, templateColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newTemplatesDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete TEMPLATE_ID",
		Short: "Delete a custom template from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Template(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Templates.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete template", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newTemplatesRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert TEMPLATE_ID",
		Short: "Revert a custom template to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Template(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Templates.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert template", err)
			}
			if resp.Template == nil {
				logger.Success("Template %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Template, templateColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newTemplatesCmd())
}
