//go:build !linux && !windows && !darwin

package notify

// playForEvent falls back to the terminal bell on platforms without a known
// system player.
func playForEvent(event string) error {
	return terminalBell()
}
