// Package report abstracts the host-facing output surface: status lines,
// warnings, named outputs, and secret masking. The orchestrator only ever
// talks to a Reporter, so the same run works under a GitHub-Actions-like
// host, a terminal, or a test fake.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/sethvargo/go-githubactions"
)

type Reporter interface {
	// Noticef reports an informational status line.
	Noticef(format string, args ...any)
	// Warningf reports a recoverable problem; the run continues.
	Warningf(format string, args ...any)
	// Errorf reports a fatal problem.
	Errorf(format string, args ...any)
	// SetOutput publishes a named output value to the host.
	SetOutput(name, value string)
	// AddMask registers a secret so the host redacts it from log streams.
	AddMask(value string)
}

// ActionsReporter reports through workflow commands: annotations for status
// lines, GITHUB_OUTPUT for outputs, add-mask for secrets.
type ActionsReporter struct {
	action *githubactions.Action
}

func NewActionsReporter(action *githubactions.Action) *ActionsReporter {
	return &ActionsReporter{action: action}
}

func (r *ActionsReporter) Noticef(format string, args ...any)  { r.action.Noticef(format, args...) }
func (r *ActionsReporter) Warningf(format string, args ...any) { r.action.Warningf(format, args...) }
func (r *ActionsReporter) Errorf(format string, args ...any)   { r.action.Errorf(format, args...) }
func (r *ActionsReporter) SetOutput(name, value string)        { r.action.SetOutput(name, value) }
func (r *ActionsReporter) AddMask(value string)                { r.action.AddMask(value) }

// ConsoleReporter reports to a terminal: colored status lines on stderr,
// outputs as name=value lines on stdout. Masking is a no-op since nothing is
// echoed back.
type ConsoleReporter struct {
	Out io.Writer
	Err io.Writer
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{Out: os.Stdout, Err: os.Stderr}
}

func (r *ConsoleReporter) Noticef(format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprint(r.Err, "OK    ")
	fmt.Fprintf(r.Err, format+"\n", args...)
}

func (r *ConsoleReporter) Warningf(format string, args ...any) {
	_, _ = color.New(color.FgYellow).Fprint(r.Err, "WARN  ")
	fmt.Fprintf(r.Err, format+"\n", args...)
}

func (r *ConsoleReporter) Errorf(format string, args ...any) {
	_, _ = color.New(color.FgRed, color.Bold).Fprint(r.Err, "ERROR ")
	fmt.Fprintf(r.Err, format+"\n", args...)
}

func (r *ConsoleReporter) SetOutput(name, value string) {
	fmt.Fprintf(r.Out, "%s=%s\n", name, value)
}

func (r *ConsoleReporter) AddMask(string) {}

// Recorder is a Reporter that captures everything for assertions in tests.
type Recorder struct {
	mu       sync.Mutex
	Notices  []string
	Warnings []string
	Errors   []string
	Outputs  map[string]string
	Masked   []string
}

func NewRecorder() *Recorder {
	return &Recorder{Outputs: make(map[string]string)}
}

func (r *Recorder) Noticef(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, fmt.Sprintf(format, args...))
}

func (r *Recorder) Warningf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Recorder) SetOutput(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outputs[name] = value
}

func (r *Recorder) AddMask(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Masked = append(r.Masked, value)
}
