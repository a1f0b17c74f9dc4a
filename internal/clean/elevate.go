package clean

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// osElevator is the production Elevator. It removes paths with
// "sudo -n" when a cached credential exists, and otherwise obtains one
// authorization through the macOS administrator dialog; the system
// caches that grant, so subsequent removals in the batch run without
// further prompting.
type osElevator struct{}

// NewElevator returns the system-backed elevator.
func NewElevator() Elevator { return osElevator{} }

func (osElevator) TryNonInteractive(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "sudo", "-n", "rm", "-rf", "--", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sudo rm %s: %v: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (osElevator) PromptInteractive(ctx context.Context) (bool, error) {
	// Run a no-op with administrator privileges purely to obtain the
	// authorization; removals then reuse the cached grant.
	script := `do shell script "true" with administrator privileges`
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(out), "User canceled") {
			return false, nil
		}
		return false, fmt.Errorf("request elevation: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return true, nil
}

func (osElevator) Remove(ctx context.Context, path string) error {
	script := fmt.Sprintf("do shell script %s with administrator privileges",
		appleScriptQuote("rm -rf -- "+shellQuote(path)))
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("elevated rm %s: %v: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// shellQuote single-quotes s for /bin/sh, the shell AppleScript's
// "do shell script" uses.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// appleScriptQuote double-quotes s as an AppleScript string literal.
func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
