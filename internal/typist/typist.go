// Package typist shells out to a keystroke-injection tool (xdotool on X11,
// ydotool on Wayland) to type decrypted text into the focused window.
package typist

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/jeffjose/utter/internal/domain"
)

// Tool wraps one injection binary.
type Tool struct {
	name string
	args func(text string) []string
	log  *slog.Logger
}

// NewXdotool returns a Tool backed by xdotool.
func NewXdotool(log *slog.Logger) *Tool {
	return &Tool{
		name: "xdotool",
		args: func(text string) []string { return []string{"type", "--", text} },
		log:  log,
	}
}

// NewYdotool returns a Tool backed by ydotool, for Wayland sessions.
func NewYdotool(log *slog.Logger) *Tool {
	return &Tool{
		name: "ydotool",
		args: func(text string) []string { return []string{"type", text} },
		log:  log,
	}
}

// Type runs the tool to simulate typing text.
func (t *Tool) Type(text string) error {
	cmd := exec.Command(t.name, t.args(text)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", t.name, err, string(out))
	}
	return nil
}

// Available probes for the tool with --version.
func (t *Tool) Available() bool {
	err := exec.Command(t.name, "--version").Run()
	if err != nil {
		t.log.Debug("injection tool probe failed", "tool", t.name, "err", err)
	}
	return err == nil
}

// Name returns the tool binary name.
func (t *Tool) Name() string { return t.name }

// Compile-time assertion that Tool implements domain.Typist.
var _ domain.Typist = (*Tool)(nil)
