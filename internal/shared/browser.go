package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// seam for tests
var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser points the default browser at url, typically the freshly bound
// server address. The spawned command is not waited on.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
