//go:build darwin

package notify

import "os/exec"

// playForEvent plays sounds on macOS using afplay and the bundled system
// sounds.
func playForEvent(event string) error {
	var files []string

	switch event {
	case "rest":
		files = []string{"/System/Library/Sounds/Glass.aiff"}
	case "work":
		files = []string{"/System/Library/Sounds/Ping.aiff"}
	default:
		files = []string{"/System/Library/Sounds/Pop.aiff"}
	}

	for _, f := range files {
		cmd := exec.Command("afplay", f)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	return terminalBell()
}
