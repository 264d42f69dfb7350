package cmd

import (
	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var versionHeaderColumns = []output.Column{
	{Header: "VERSION ID", Path: "containerVersionId"},
	{Header: "NAME", Path: "name"},
	{Header: "TAGS", Path: "numTags"},
	{Header: "TRIGGERS", Path: "numTriggers"},
	{Header: "VARIABLES", Path: "numVariables"},
	{Header: "DELETED", Path: "deleted"},
}

func newVersionHeadersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version-headers",
		Short: "Browse container version metadata",
	}
	cmd.AddCommand(
		newVersionHeadersListCmd(),
		newVersionHeadersLatestCmd(),
	)
	return cmd
}

func newVersionHeadersListCmd() *cobra.Command {
	var (
		scope          gtm.Scope
		includeDeleted bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the version headers of a container",
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
			call := svc.Accounts.Containers.VersionHeaders.List(parent)
			if includeDeleted {
				call.IncludeDeleted(true)
			}
			var headers []*tagmanager.ContainerVersionHeader
			err = call.Pages(cmd.Context(), func(page *tagmanager.ListContainerVersionsResponse) error {
				headers = append(headers, page.ContainerVersionHeader...)
				return nil
			})
			if err != nil {
				return apiError("failed to list version headers", err)
			}
			return renderList(headers, versionHeaderColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include deleted versions")
	return cmd
}

func newVersionHeadersLatestCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Get the latest version header of a container",
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
			header, err := svc.Accounts.Containers.VersionHeaders.Latest(parent).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get latest version header", err)
			}
			return renderObject(header, versionHeaderColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func init() {
	rootCmd.AddCommand(newVersionHeadersCmd())
}
