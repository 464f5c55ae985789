package adb

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tungetti/adbkit/internal/errors"
)

// LogPriority is a logcat priority letter.
type LogPriority string

const (
	PriorityVerbose LogPriority = "V"
	PriorityDebug   LogPriority = "D"
	PriorityInfo    LogPriority = "I"
	PriorityWarn    LogPriority = "W"
	PriorityError   LogPriority = "E"
	PriorityFatal   LogPriority = "F"
	PrioritySilent  LogPriority = "S"
)

// LogFilter is a logcat filterspec, "tag:priority".
type LogFilter struct {
	Tag      string
	Priority LogPriority
}

// String renders the filterspec.
func (f LogFilter) String() string {
	tag := f.Tag
	if tag == "" {
		tag = "*"
	}
	return tag + ":" + string(f.Priority)
}

// ParseLogFilter parses a "tag:priority" filterspec. The priority is one of
// V, D, I, W, E, F or S in either case.
func ParseLogFilter(s string) (LogFilter, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return LogFilter{}, errors.Newf(errors.Validation, "invalid log filter %q, expected tag:priority", s).WithOp("adb.ParseLogFilter")
	}
	p := LogPriority(strings.ToUpper(s[i+1:]))
	switch p {
	case PriorityVerbose, PriorityDebug, PriorityInfo, PriorityWarn, PriorityError, PriorityFatal, PrioritySilent:
	default:
		return LogFilter{}, errors.Newf(errors.Validation, "invalid log priority %q in %q", s[i+1:], s).WithOp("adb.ParseLogFilter")
	}
	tag := s[:i]
	if tag == "*" {
		tag = ""
	}
	return LogFilter{Tag: tag, Priority: p}, nil
}

// logcatTimeLayout is the layout logcat accepts for -T.
const logcatTimeLayout = "01-02 15:04:05.000"

// LogcatOptions configures a logcat invocation.
type LogcatOptions struct {
	Buffers  []string      // -b, e.g. "main", "crash", "all"
	Format   string        // -v, e.g. "threadtime", "brief"
	Expr     string        // -e, only lines matching the regular expression
	Dump     bool          // -d, dump the log and exit instead of following it
	Filename string        // -f, log to a file on the device
	Since    time.Time     // -T, only lines since this time
	Pid      int           // --pid, only lines from this process
	Filters  []LogFilter   // filterspecs appended after the flags
	Timeout  time.Duration // stop after this long; the kill is not an error
	Output   *os.File      // stream lines here instead of capturing them
}

// Args renders the options as logcat arguments.
func (o LogcatOptions) Args() []string {
	var args []string
	for _, b := range o.Buffers {
		args = append(args, "-b", b)
	}
	if o.Format != "" {
		args = append(args, "-v", o.Format)
	}
	if o.Expr != "" {
		args = append(args, "-e", o.Expr)
	}
	if o.Dump {
		args = append(args, "-d")
	}
	if o.Filename != "" {
		args = append(args, "-f", o.Filename)
	}
	if !o.Since.IsZero() {
		args = append(args, "-T", o.Since.Format(logcatTimeLayout))
	}
	if o.Pid > 0 {
		args = append(args, "--pid", strconv.Itoa(o.Pid))
	}
	for _, f := range o.Filters {
		args = append(args, f.String())
	}
	return args
}
