package testlog

import (
	"sync"

	"vendorconnect/internal/logx"
)

// Entry is a recorded log entry.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the named field and whether it was present.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder collects entries written through the loggers it hands out.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns an empty Recorder.
func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger writing into r.
func (r *Recorder) Logger() logx.Logger {
	return bound{r: r}
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Find returns the first entry with the given level and message.
func (r *Recorder) Find(level, msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Recorder) add(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: append([]logx.Field(nil), fields...)})
}

type bound struct {
	r    *Recorder
	base []logx.Field
}

func (b bound) Debug(msg string, f ...logx.Field) { b.r.add("debug", msg, b.merge(f)) }
func (b bound) Info(msg string, f ...logx.Field)  { b.r.add("info", msg, b.merge(f)) }
func (b bound) Warn(msg string, f ...logx.Field)  { b.r.add("warn", msg, b.merge(f)) }
func (b bound) Error(msg string, f ...logx.Field) { b.r.add("error", msg, b.merge(f)) }

func (b bound) merge(f []logx.Field) []logx.Field {
	out := make([]logx.Field, 0, len(b.base)+len(f))
	return append(append(out, b.base...), f...)
}

func (b bound) With(f ...logx.Field) logx.Logger {
	return bound{r: b.r, base: b.merge(f)}
}

func (b bound) Sync() error { return nil }

var _ logx.Logger = bound{}
