// Package launcher implements the CommandLauncher collaborator from §6:
// fire-and-forget OS actions triggered by pointer clicks on a widget.
package launcher

import (
	"os"
	"os/exec"
)

// OS shells out to xdg-open (or $BROWSER) and the user's shell. The
// config file is a documented trust point (§4.10): RunCommand executes
// whatever the widget's action payload contains with no sandboxing.
type OS struct{}

// OpenURL launches s with xdg-open, falling back to $BROWSER if set and
// xdg-open is not on PATH.
func (OS) OpenURL(s string) error {
	if path, err := exec.LookPath("xdg-open"); err == nil {
		return exec.Command(path, s).Start()
	}
	if browser := os.Getenv("BROWSER"); browser != "" {
		return exec.Command(browser, s).Start()
	}
	return exec.Command("xdg-open", s).Start()
}

// RunCommand executes s via the system shell, detached from this
// process's lifetime.
func (OS) RunCommand(s string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return exec.Command(shell, "-c", s).Start()
}
