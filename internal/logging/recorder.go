package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one message captured by a Recorder.
type Entry struct {
	Level   Level
	Prefix  string
	Message string
	Fields  []interface{}
}

// Field returns the value logged under key, if any.
func (e Entry) Field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(e.Fields); i += 2 {
		if k, ok := e.Fields[i].(string); ok && k == key {
			return e.Fields[i+1], true
		}
	}
	return nil, false
}

// Recorder is a Logger that keeps every message in memory. Child loggers
// created with WithPrefix or WithFields share the parent's storage.
// It is safe for concurrent use.
type Recorder struct {
	store  *recordStore
	prefix string
	fields []interface{}
}

type recordStore struct {
	mu      sync.Mutex
	entries []Entry
	level   Level
}

// NewRecorder creates a Recorder that captures messages at every level.
func NewRecorder() *Recorder {
	return &Recorder{store: &recordStore{level: LevelDebug}}
}

func (r *Recorder) Debug(msg string, keyvals ...interface{}) { r.record(LevelDebug, msg, keyvals) }
func (r *Recorder) Info(msg string, keyvals ...interface{})  { r.record(LevelInfo, msg, keyvals) }
func (r *Recorder) Warn(msg string, keyvals ...interface{})  { r.record(LevelWarn, msg, keyvals) }
func (r *Recorder) Error(msg string, keyvals ...interface{}) { r.record(LevelError, msg, keyvals) }

func (r *Recorder) WithPrefix(prefix string) Logger {
	return &Recorder{store: r.store, prefix: prefix, fields: r.fields}
}

func (r *Recorder) WithFields(keyvals ...interface{}) Logger {
	fields := append(append([]interface{}{}, r.fields...), keyvals...)
	return &Recorder{store: r.store, prefix: r.prefix, fields: fields}
}

func (r *Recorder) SetLevel(level Level) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.level = level
}

func (r *Recorder) GetLevel() Level {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.level
}

func (r *Recorder) record(level Level, msg string, keyvals []interface{}) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if level < r.store.level {
		return
	}
	r.store.entries = append(r.store.entries, Entry{
		Level:   level,
		Prefix:  r.prefix,
		Message: msg,
		Fields:  append(append([]interface{}{}, r.fields...), keyvals...),
	})
}

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]Entry{}, r.store.entries...)
}

// Find returns captured messages whose text contains substr.
func (r *Recorder) Find(substr string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if strings.Contains(e.Message, substr) {
			out = append(out, e)
		}
	}
	return out
}

// Contains reports whether any captured message contains substr.
func (r *Recorder) Contains(substr string) bool {
	return len(r.Find(substr)) > 0
}

// Reset discards captured messages.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = nil
}

// String renders the captured messages one per line, for test failure output.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, e := range r.Entries() {
		fmt.Fprintf(&b, "%s %s %v\n", e.Level, e.Message, e.Fields)
	}
	return b.String()
}
