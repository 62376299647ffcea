package installer

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter prints human-readable progress
type Reporter struct {
	w       io.Writer
	step    func(a ...interface{}) string
	success func(a ...interface{}) string
	warn    func(a ...interface{}) string
	fail    func(a ...interface{}) string
}

// NewReporter creates a Reporter writing to w. Colours follow color.NoColor.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:       w,
		step:    color.New(color.FgCyan, color.Bold).SprintFunc(),
		success: color.New(color.FgGreen).SprintFunc(),
		warn:    color.New(color.FgYellow).SprintFunc(),
		fail:    color.New(color.FgRed).SprintFunc(),
	}
}

// Writer is the destination of command output
func (r *Reporter) Writer() io.Writer {
	return r.w
}

func (r *Reporter) Step(format string, a ...interface{}) {
	fmt.Fprintln(r.w, r.step(fmt.Sprintf(format, a...)))
}

func (r *Reporter) Info(format string, a ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", a...)
}

func (r *Reporter) Success(format string, a ...interface{}) {
	fmt.Fprintln(r.w, r.success("✓ "+fmt.Sprintf(format, a...)))
}

func (r *Reporter) Warn(format string, a ...interface{}) {
	fmt.Fprintln(r.w, r.warn("Warning: "+fmt.Sprintf(format, a...)))
}

func (r *Reporter) Error(format string, a ...interface{}) {
	fmt.Fprintln(r.w, r.fail("Error: "+fmt.Sprintf(format, a...)))
}
