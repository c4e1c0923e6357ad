package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenURL asks the desktop to open url, typically a payment link, in the default browser.
func OpenURL(url string) error {
	rt := getRuntime()
	opener, ok := openers[rt]
	if !ok {
		return fmt.Errorf("%w: cannot open links on %s", ErrNotImplemented, rt)
	}

	args := append(append([]string{}, opener[1:]...), url)
	if err := startCommand(opener[0], args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
