package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/googleapi"

	"github.com/gtmctl/gtmctl/internal/gtm"
	"github.com/gtmctl/gtmctl/internal/output"
)

// addAccountFlags registers --account on commands scoped to an account.
func addAccountFlags(cmd *cobra.Command, s *gtm.Scope) {
	cmd.Flags().StringVarP(&s.AccountID, "account", "a", "", "Account ID")
}

// addContainerFlags registers --account and --container.
func addContainerFlags(cmd *cobra.Command, s *gtm.Scope) {
	addAccountFlags(cmd, s)
	cmd.Flags().StringVarP(&s.ContainerID, "container", "c", "", "Container ID")
}

// addWorkspaceFlags registers the full scope flag set.
func addWorkspaceFlags(cmd *cobra.Command, s *gtm.Scope) {
	addContainerFlags(cmd, s)
	cmd.Flags().StringVarP(&s.WorkspaceID, "workspace", "w", "", "Workspace ID")
}

// addBodyFlags registers --file on create and update commands, plus
// --fingerprint where the API supports optimistic concurrency.
func addBodyFlags(cmd *cobra.Command, file, fingerprint *string) {
	cmd.Flags().StringVarP(file, "file", "f", "", "JSON resource body ('-' for stdin)")
	_ = cmd.MarkFlagRequired("file")
	if fingerprint != nil {
		cmd.Flags().StringVar(fingerprint, "fingerprint", "", "Expected resource fingerprint")
	}
}

// resolveFormat turns the --output flag into a Format, defaulting from the
// terminal state of stdout.
func resolveFormat() (output.Format, error) {
	if outputFormat == "" {
		return output.DefaultFormat(), nil
	}
	return output.ParseFormat(outputFormat)
}

// renderList writes a slice of API resources in the selected format.
func renderList(items any, columns []output.Column) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		return output.WriteTable(os.Stdout, columns, items)
	}
	return output.WriteObject(os.Stdout, format, items)
}

// renderObject writes a single API resource, shown as a one-row table in
// table mode. Full detail is available with -o json or -o yaml.
func renderObject(obj any, columns []output.Column) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		return output.WriteTable(os.Stdout, columns, []any{obj})
	}
	return output.WriteObject(os.Stdout, format, obj)
}

// apiError flattens Tag Manager API failures into one line, surfacing the
// server message and HTTP status from googleapi errors.
func apiError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Message != "" {
			return fmt.Errorf("%s: %s (HTTP %d)", op, gerr.Message, gerr.Code)
		}
		return fmt.Errorf("%s: HTTP %d", op, gerr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}
