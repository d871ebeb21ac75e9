//go:build !linux && !darwin && !freebsd && !windows

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(
		os.Stderr,
		"netowner is only supported on Windows, Linux, macOS, and FreeBSD.\n\nIf you are seeing this message, you are attempting to build or run netowner on a platform where the TCP table cannot be read.",
	)
	os.Exit(1)
}
