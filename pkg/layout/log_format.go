/*
Package layout defines bdlm/log formatters in the form of:
[ISO-8601-date] [level] [hostname] [caller] [message] [additional fields]
followed by the stack trace of the entry's error, if it carries one.

	logger.Formatter = &layout.TextFormat{Cache: layout.NewFrameCache()}
	logger.Formatter = &layout.JSONFormat{Cache: layout.NewFrameCache()}

Traces are resolved through a FrameCache so repeated errors from the same
call sites are only symbolized once.
*/
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"
	"text/template"

	"github.com/bdlm/log"
	stdLogger "github.com/bdlm/std/logger"
)

/*
RFC3339Milli defines an RFC3339 date format with milliseconds
*/
const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// ErrorKey is the entry field whose stack trace is rendered.
const ErrorKey = "error"

const modulePath = "github.com/mkenney/log-bench"

// tracer is implemented by errors that carry the program counters of the
// stack they were raised on.
type tracer interface {
	Callers() []uintptr
}

var defaultCache = NewFrameCache()

type logData struct {
	Timestamp string      `json:"time"`
	Level     string      `json:"level"`
	Hostname  string      `json:"host"`
	Caller    string      `json:"caller,omitempty"`
	Message   string      `json:"msg"`
	Data      []dataField `json:"data"`
	Trace     []string    `json:"trace,omitempty"`
}
type dataField struct {
	Key string
	Msg string
}

/*
TextFormat renders entries as a single key="value" line followed by one
"\tat function(file:line)" line per frame of the error's stack trace.
*/
type TextFormat struct {
	// Cache resolves trace frames. A shared package cache is used if nil.
	Cache *FrameCache
	// Caller adds the logging call site to every entry.
	Caller bool
}

/*
Format is a custom log format method
*/
func (l *TextFormat) Format(entry *log.Entry) ([]byte, error) {
	logLine := &bytes.Buffer{}
	data := getData(entry, l.Cache, l.Caller)
	if err := textTemplate.Execute(logLine, data); nil != err {
		return nil, fmt.Errorf("failed to render log line: %s", err.Error())
	}
	logLine.WriteByte('\n')
	return logLine.Bytes(), nil
}

var textTemplate = template.Must(
	template.New("log").Parse(`time="{{.Timestamp}}" host="{{.Hostname}}" level="{{.Level}}"{{if .Caller}} caller="{{.Caller}}"{{end}} msg="{{.Message}}"{{range .Data}} {{.Key}}="{{.Msg}}"{{end}}{{range .Trace}}
	at {{.}}{{end}}`),
)

// JSONFormat renders entries as one JSON object per line. The error's
// stack trace is emitted as the "trace" array.
type JSONFormat struct {
	// Cache resolves trace frames. A shared package cache is used if nil.
	Cache *FrameCache
	// Caller adds the logging call site to every entry.
	Caller bool
}

/*
Format is a custom log format method
*/
func (l *JSONFormat) Format(entry *log.Entry) ([]byte, error) {
	data := getData(entry, l.Cache, l.Caller)
	serialized, err := json.Marshal(data)
	if nil != err {
		return nil, fmt.Errorf("failed to marshal log data as JSON: %s", err.Error())
	}
	return append(serialized, '\n'), nil
}

// levelName returns the lowercase name of a log level.
func levelName(level stdLogger.Level) string {
	switch level {
	case log.DebugLevel:
		return "debug"
	case log.InfoLevel:
		return "info"
	case log.WarnLevel:
		return "warn"
	case log.ErrorLevel:
		return "error"
	case log.FatalLevel:
		return "fatal"
	case log.PanicLevel:
		return "panic"
	}
	return "unknown"
}

/*
getData is a helper function that extracts log data from the log entry.
*/
func getData(entry *log.Entry, cache *FrameCache, caller bool) *logData {
	if nil == cache {
		cache = defaultCache
	}
	data := &logData{
		Timestamp: entry.Time.Format(RFC3339Milli),
		Level:     levelName(entry.Level),
		Hostname:  os.Getenv("HOSTNAME"),
		Message:   entry.Message,
		Data:      make([]dataField, 0, len(entry.Data)),
	}
	if caller {
		data.Caller = getCaller()
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data.Data = append(data.Data, dataField{
			Key: k,
			Msg: fmt.Sprintf("%v", entry.Data[k]),
		})
	}

	if t, ok := entry.Data[ErrorKey].(tracer); ok {
		data.Trace = cache.Resolve(t.Callers())
	}

	return data
}

/*
getCaller returns the first frame outside the logger and this package as
"file:line function".
*/
func getCaller() string {
	caller := ""
	a := 0
	for {
		pc, file, line, ok := runtime.Caller(a + 2)
		if !ok {
			break
		}
		name := runtime.FuncForPC(pc).Name()
		if !strings.HasPrefix(name, "github.com/bdlm/log.") && !strings.HasPrefix(name, modulePath+"/pkg/layout.") {
			caller = strings.Replace(fmt.Sprintf("%s:%d %s", path.Base(file), line, name), modulePath, "", -1)
			break
		}
		a++
	}
	return caller
}
