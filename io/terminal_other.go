//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package io

// IsTerminal always reports false where termios is unavailable.
func IsTerminal(fd uintptr) bool {
	return false
}
