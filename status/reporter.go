// Package status prints the user facing outcome lines of a run.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
	Disabled
)

var (
	prefixes = map[Level]string{
		Info:     "[INFO]",
		Success:  "[ OK ]",
		Warning:  "[WARN]",
		Error:    "[FAIL]",
		Disabled: "[SKIP]",
	}
	colors = map[Level]*color.Color{
		Info:     color.New(color.FgCyan),
		Success:  color.New(color.FgGreen),
		Warning:  color.New(color.FgYellow),
		Error:    color.New(color.FgRed, color.Bold),
		Disabled: color.New(color.FgHiBlack),
	}
)

// Reporter writes one severity prefixed line per event and keeps a tally per level.
type Reporter struct {
	out    io.Writer
	counts map[Level]int
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, counts: map[Level]int{}}
}

func Default() *Reporter {
	return NewReporter(os.Stdout)
}

func (r *Reporter) log(level Level, format string, args ...any) {
	r.counts[level]++
	prefix := colors[level].Sprint(prefixes[level])
	fmt.Fprintf(r.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func (r *Reporter) Info(format string, args ...any) {
	r.log(Info, format, args...)
}

func (r *Reporter) Success(format string, args ...any) {
	r.log(Success, format, args...)
}

func (r *Reporter) Warning(format string, args ...any) {
	r.log(Warning, format, args...)
}

func (r *Reporter) Error(format string, args ...any) {
	r.log(Error, format, args...)
}

func (r *Reporter) Disabled(format string, args ...any) {
	r.log(Disabled, format, args...)
}

func (r *Reporter) Count(level Level) int {
	return r.counts[level]
}
