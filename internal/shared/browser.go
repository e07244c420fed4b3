package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Swapped out by tests.
var goos = func() string { return runtime.GOOS }

// OpenBrowser hands a URL to the platform's default browser. Used for the
// Google sign-in bootstrap, where the OAuth exchange finishes on the gateway
// rather than in this process.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch rt := goos(); rt {
	case "darwin":
		name = "open"
	case "linux":
		name = "xdg-open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	default:
		return fmt.Errorf("no browser launcher for platform %s", rt)
	}

	if err := exec.Command(name, append(args, url)...).Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	return nil
}
