// Package logger provides the run-wide structured logger and per-asset
// action journal, in the idiom of the teacher project's own
// app.Journal.AddEntry/Message/DebugObject/Report call pattern.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	console "github.com/phsym/console-slog"
	"github.com/kr/pretty"
	slogmulti "github.com/samber/slog-multi"
)

// Level is the severity of a free-form log message.
type Level int

const (
	OK Level = iota
	Info
	Warning
	Error
)

// Action tags one journal entry with what happened to a single item.
type Action int

const (
	NONE Action = iota
	UPLOADED
	SERVER_DUPLICATE
	LOCAL_DUPLICATE
	SERVER_ERROR
	UPGRADED
	NOT_SELECTED
	ALBUM
	INFO
	ERROR
)

func (a Action) String() string {
	switch a {
	case UPLOADED:
		return "Uploaded"
	case SERVER_DUPLICATE:
		return "Server has duplicate"
	case LOCAL_DUPLICATE:
		return "Local duplicate"
	case SERVER_ERROR:
		return "Server error"
	case UPGRADED:
		return "Upgraded"
	case NOT_SELECTED:
		return "Not selected"
	case ALBUM:
		return "Added to album"
	case INFO:
		return "Info"
	case ERROR:
		return "Error"
	default:
		return "None"
	}
}

// Entry is one journalled action against a named item.
type Entry struct {
	Name     string
	Action   Action
	Comments []string
}

// Journal is a structured logger plus a per-action tally, produced once per
// run and summarised at the end with Report.
type Journal struct {
	mu      sync.Mutex
	log     *slog.Logger
	entries []Entry
	counts  map[Action]int
}

// NewJournal builds a Journal that writes human-readable output to out and,
// if debugFile is non-nil, also fans structured debug-level records out to
// it as JSON.
func NewJournal(out io.Writer, debugFile io.Writer) *Journal {
	handlers := []slog.Handler{console.NewHandler(out, nil)}
	if debugFile != nil {
		handlers = append(handlers, slog.NewJSONHandler(debugFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return &Journal{
		log:    slog.New(slogmulti.Fanout(handlers...)),
		counts: map[Action]int{},
	}
}

// Message logs a free-form line at the given severity.
func (j *Journal) Message(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case Warning:
		j.log.Warn(msg)
	case Error:
		j.log.Error(msg)
	default:
		j.log.Info(msg)
	}
}

// OK logs an informational line.
func (j *Journal) OK(format string, args ...any) { j.Message(OK, format, args...) }

// Warning logs a warning-level line. Satisfies upload.Logger.
func (j *Journal) Warning(format string, args ...any) { j.Message(Warning, format, args...) }

// Error logs an error-level line.
func (j *Journal) Error(format string, args ...any) { j.Message(Error, format, args...) }

// AddEntry records one action against a named item and tallies it for the
// final Report.
func (j *Journal) AddEntry(name string, action Action, comments ...string) {
	j.mu.Lock()
	j.entries = append(j.entries, Entry{Name: name, Action: action, Comments: comments})
	j.counts[action]++
	j.mu.Unlock()

	if len(comments) > 0 {
		j.log.Debug(name, "action", action.String(), "detail", comments[0])
	} else {
		j.log.Debug(name, "action", action.String())
	}
}

// DebugObject logs a pretty-printed dump of v at debug level.
func (j *Journal) DebugObject(caption string, v any) {
	j.log.Debug(caption, "value", fmt.Sprintf("%# v", pretty.Formatter(v)))
}

// Report prints the final per-action tally.
func (j *Journal) Report() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for action, n := range j.counts {
		j.log.Info(fmt.Sprintf("%-24s: %d", action.String(), n))
	}
}
