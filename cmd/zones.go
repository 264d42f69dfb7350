package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/api/tagmanager/v2"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

var zoneColumns = []output.Column{
	{Header: "ZONE ID", Path: "zoneId"},
	{Header: "NAME", Path: "name"},
	{Header: "FINGERPRINT", Path: "fingerprint"},
}

func newZonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "Manage zones in a workspace",
	}
	cmd.AddCommand(
		newZonesListCmd(),
		newZonesGetCmd(),
		newZonesCreateCmd(),
		newZonesUpdateCmd(),
		newZonesDeleteCmd(),
		newZonesRevertCmd(),
	)
	return cmd
}

func newZonesListCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the zones in a workspace",
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
			var zones []*tagmanager.Zone
			err = svc.Accounts.Containers.Workspaces.Zones.List(parent).
				Pages(cmd.Context(), func(page *tagmanager.ListZonesResponse) error {
					zones = append(zones, page.Zone...)
					return nil
				})
			if err != nil {
				return apiError("failed to list zones", err)
			}
			return renderList(zones, zoneColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newZonesGetCmd() *cobra.Command {
	var scope gtm.Scope
	cmd := &cobra.Command{
		Use:   "get ZONE_ID",
		Short: "Get a single zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Zone(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			zone, err := svc.Accounts.Containers.Workspaces.Zones.Get(path).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to get zone", err)
			}
			return renderObject(zone, zoneColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	return cmd
}

func newZonesCreateCmd() *cobra.Command {
	var (
		scope gtm.Scope
		file  string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a zone from a JSON body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parent, err := scope.Workspace()
			if err != nil {
				return err
			}
			zone, err := gtm.LoadResource[tagmanager.Zone](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			created, err := svc.Accounts.Containers.Workspaces.Zones.Create(parent, zone).Context(cmd.Context()).Do()
			if err != nil {
				return apiError("failed to create zone", err)
			}
			return renderObject(created, zoneColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, nil)
	return cmd
}

func newZonesUpdateCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		file        string
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "update ZONE_ID",
		Short: "Update a zone from a JSON body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Zone(args[0])
			if err != nil {
				return err
			}
			zone, err := gtm.LoadResource[tagmanager.Zone](file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Zones.Update(path, zone).Context(cmd.Context())
			if fp := gtm.PickFingerprint(fingerprint, zone.Fingerprint); fp != "" {
				call.Fingerprint(fp)
			}
			updated, err := call.Do()
			if err != nil {
				return apiError("failed to update zone", err)
			}
			return renderObject(updated, zoneColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	addBodyFlags(cmd, &file, &fingerprint)
	return cmd
}

func newZonesDeleteCmd() *cobra.Command {
	var (
		scope gtm.Scope
		force bool
	)
	cmd := &cobra.Command{
		Use:   "delete ZONE_ID",
		Short: "Delete a zone from the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Zone(args[0])
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
			if err := svc.Accounts.Containers.Workspaces.Zones.Delete(path).Context(cmd.Context()).Do(); err != nil {
				return apiError("failed to delete zone", err)
			}
			logger.Success("Deleted %s", path)
			return nil
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func newZonesRevertCmd() *cobra.Command {
	var (
		scope       gtm.Scope
		fingerprint string
	)
	cmd := &cobra.Command{
		Use:   "revert ZONE_ID",
		Short: "Revert a zone to its state in the latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scope.Zone(args[0])
			if err != nil {
				return err
			}
			svc, err := factory.Client(cmd.Context())
			if err != nil {
				return err
			}
			call := svc.Accounts.Containers.Workspaces.Zones.Revert(path).Context(cmd.Context())
			if fingerprint != "" {
				call.Fingerprint(fingerprint)
			}
			resp, err := call.Do()
			if err != nil {
				return apiError("failed to revert zone", err)
			}
			if resp.Zone == nil {
				logger.Success("Zone %s reverted (removed from the workspace)", args[0])
				return nil
			}
			return renderObject(resp.Zone, zoneColumns)
		},
	}
	addWorkspaceFlags(cmd, &scope)
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "Expected resource fingerprint")
	return cmd
}

func init() {
	rootCmd.AddCommand(newZonesCmd())
}
