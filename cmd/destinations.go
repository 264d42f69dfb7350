package cmd

import (
	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var destinationColumns = []output.Column{
	{Header: "DESTINATION LINK ID", Path: "destinationLinkId"},
	{Header: "DESTINATION ID", Path: "destinationId"},
	{Header: "NAME", Path: "name"},
}

func newDestinationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destinations",
		Short: "Manage Google tag destinations linked to a container",
	}
	cmd.AddCommand(
		newDestinationsListCmd(),
		newDestinationsGetCmd(),
		newDestinationsLinkCmd(),
	)
	return cmd
}

func newDestinationsListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the destinations linked to a container",
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
			// destinations.list does not page: the API has no pageToken
			// parameter, so the generated call has no Pages iterator.
			var destinations []*tagmanager.Destination
			resp, err := svc.Accounts.Containers.Destinations.List(parent).
				Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to list destinations", err)
			}
			destinations = append(destinations, resp.Destination...)
			return renderList(destinations, destinationColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newDestinationsGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get DESTINATION_LINK_ID",
		Short: "Get a single destination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Destination(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			destination, err := svc.Accounts.Containers.Destinations.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get destination", err)
			}
			return renderObject(destination, destinationColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	return cmd
}

func newDestinationsLinkCmd() *cobra.Command {
	var (
		scope         gtm.Scope
		destinationID string
	)
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a Google tag destination to the container",
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
			destination, err := svc.Accounts.Containers.Destinations.Link(parent).
				DestinationId(destinationID).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to link destination", err)
			}
			return renderObject(destination, destinationColumns)
		},
	}
	addContainerFlags(cmd, &scope)
	cmd.Flags().StringVar(&destinationID, "destination-id", "", "Measurement ID of the destination, for example G-XXXXXXX")
	_ = cmd.MarkFlagRequired("destination-id")
	return cmd
}

func init() {
	rootCmd.AddCommand(newDestinationsCmd())
}
