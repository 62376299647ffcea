package io

import (
	"bufio"
	"io"
	"strings"
)

type flusher interface{ Flush() error }

// ForwardLines reads r until EOF, writing every line to w as soon as it is
// complete and flushing w after each line when it supports flushing. A final
// line without a trailing newline is forwarded with one appended. The
// returned slice holds the lines without their line terminators, in order.
//
// Reading continues after a write error so the producer never blocks; the
// first write error is returned.
func ForwardLines(r io.Reader, w io.Writer) ([]string, error) {
	var (
		lines    []string
		writeErr error
	)

	f, _ := w.(flusher)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			text := strings.TrimRight(line, "\r\n")
			lines = append(lines, text)

			if writeErr == nil {
				writeErr = writeLine(w, f, text)
			}
		}
		if err != nil {
			if err == io.EOF {
				return lines, writeErr
			}
			if writeErr != nil {
				return lines, writeErr
			}
			return lines, err
		}
	}
}

func writeLine(w io.Writer, f flusher, text string) error {
	if _, err := io.WriteString(w, text+"\n"); err != nil {
		return err
	}
	if f != nil {
		return f.Flush()
	}
	return nil
}
