package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// errAborted reports a confirmation prompt answered with anything but yes.
var errAborted = errors.New("aborted")

// confirm asks for interactive confirmation before a destructive call.
// --force skips the prompt; without a terminal on stdin the action is
// refused instead of hanging.
func confirm(action string, force bool) error {
	if force {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("refusing to %s without confirmation (re-run with --force)", action)
	}

	config := &readline.Config{
		Prompt: fmt.Sprintf("About to %s. Type 'yes' to continue: ", action),
		Stdout: os.Stderr,
	}
	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create confirmation prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	line, err := rl.Readline()
	if err != nil {
		return errAborted
	}
	if !strings.EqualFold(strings.TrimSpace(line), "yes") {
		return errAborted
	}
	return nil
}
