/*
PURPOSE:
  The "Press any key to exit..." prompt shown after a run.

REQUIREMENTS:
  User-specified:
  - Print the prompt and block until one key is pressed.

  Implementation-discovered:
  - A single keypress needs raw terminal mode; line mode waits for Enter.
  - Piped or redirected stdin (CI, scripts) must never block.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run command)

ERROR HANDLING:
  - Terminal state is always restored, even when the read fails.

IMPLEMENTATION RULES:
  - golang.org/x/term for raw mode and terminal detection.

USAGE:
  err := console.WaitForKey(os.Stdin, os.Stdout, console.DefaultPrompt)

SELF-HEALING INSTRUCTIONS:
  - A broken shell after exit means Restore was skipped.

RELATED FILES:
  - internal/cli/run.go

MAINTENANCE:
  - None.
*/

package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// DefaultPrompt is printed before waiting.
const DefaultPrompt = "Press any key to exit..."

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// WaitForKey prints prompt to out and blocks until one byte is read from
// in. It returns immediately, without printing, when in is not a terminal.
func WaitForKey(in *os.File, out io.Writer, prompt string) error {
	if !IsTerminal(in) {
		return nil
	}

	fmt.Fprintln(out, prompt)

	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	var buf [1]byte
	if _, err := in.Read(buf[:]); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read key: %w", err)
	}
	return nil
}
