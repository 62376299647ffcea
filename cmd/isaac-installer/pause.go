package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Variable to allow mocking in tests
var isTerminal = func(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// shouldPause reports whether a fatal error should wait for the operator,
// so a double-clicked installer does not close before the error is read.
func shouldPause(noPause bool, stdin *os.File) bool {
	if noPause || stdin == nil {
		return false
	}
	return isTerminal(stdin)
}

func pauseForEnter(r io.Reader, w io.Writer) {
	fmt.Fprint(w, "Press Enter to exit...")
	_, _ = bufio.NewReader(r).ReadString('\n')
}
