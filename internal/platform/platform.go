// Package platform collects host metadata for the registration frame.
package platform

import (
	"os"
	"runtime"
	"strings"
)

const osRelease = "/etc/os-release"

// Hostname returns the machine's hostname, or "unknown".
func Hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "unknown"
	}
	return h
}

// Name returns a human-readable platform string: the distro PRETTY_NAME on
// Linux, the GOOS name elsewhere.
func Name() string {
	if runtime.GOOS != "linux" {
		return runtime.GOOS
	}
	b, err := os.ReadFile(osRelease)
	if err != nil {
		return "Linux"
	}
	return prettyName(string(b))
}

// Arch returns the machine architecture.
func Arch() string { return runtime.GOARCH }

func prettyName(contents string) string {
	for _, line := range strings.Split(contents, "\n") {
		if rest, ok := strings.CutPrefix(line, "PRETTY_NAME="); ok {
			return strings.Trim(rest, `"`)
		}
	}
	return "Linux"
}
