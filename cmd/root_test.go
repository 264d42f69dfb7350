package cmd

import (
	"strings"
	"testing"
)

// TestCommandTree pins the full set of registered subcommands. A missing
// entry here usually means an init() registration was dropped.
func TestCommandTree(t *testing.T) {
	crud := []string{"list", "get", "create", "update", "delete"}
	workspaceChild := append(append([]string{}, crud...), "revert")

	resources := map[string][]string{
		"auth":            {"login", "logout", "status"},
		"accounts":        {"list", "get", "update"},
		"containers":      crud,
		"workspaces":      append(append([]string{}, crud...), "create-version"),
		"tags":            workspaceChild,
		"triggers":        workspaceChild,
		"variables":       workspaceChild,
		"templates":       workspaceChild,
		"zones":           workspaceChild,
		"clients":         workspaceChild,
		"transformations": workspaceChild,
		"folders":         append(append([]string{}, workspaceChild...), "entities"),
		"builtins":        {"list", "enable", "disable", "revert"},
		"environments":    {"list", "get", "create", "update", "delete", "reauthorize"},
		"versions":        {"get", "live", "publish", "delete", "undelete", "update", "set-latest"},
		"version-headers": {"list", "latest"},
		"permissions":     crud,
		"destinations":    {"list", "get", "link"},
	}

	for parent, subs := range resources {
		for _, sub := range subs {
			path := parent + " " + sub
			cmd, _, err := rootCmd.Find(strings.Fields(path))
			if err != nil {
				t.Errorf("command %q not registered: %v", path, err)
				continue
			}
			if cmd.Name() != sub {
				t.Errorf("Find(%q) resolved to %q", path, cmd.Name())
			}
		}
	}

	for _, name := range []string{"version", "selfupdate"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestScopeFlagsRegistered(t *testing.T) {
	tests := []struct {
		path  string
		flags []string
	}{
		{"tags list", []string{"account", "container", "workspace"}},
		{"environments list", []string{"account", "container"}},
		{"permissions list", []string{"account"}},
		{"tags update", []string{"file", "fingerprint"}},
		{"permissions update", []string{"file"}},
		{"containers delete", []string{"force"}},
		{"destinations link", []string{"destination-id"}},
	}

	for _, tt := range tests {
		cmd, _, err := rootCmd.Find(strings.Fields(tt.path))
		if err != nil {
			t.Errorf("command %q not registered: %v", tt.path, err)
			continue
		}
		for _, flag := range tt.flags {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s: missing --%s", tt.path, flag)
			}
		}
	}
}
