package layout_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bdlm/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkenney/log-bench/pkg/layout"
	"github.com/mkenney/log-bench/pkg/stack"
)

func newLogger(f log.Formatter) (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := log.New()
	logger.Out = buf
	logger.Formatter = f
	logger.Level = log.DebugLevel
	return logger, buf
}

func TestFrameCacheResolve(t *testing.T) {
	th := stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
	pcs := th.Callers()
	cache := layout.NewFrameCache()

	lines := cache.Resolve(pcs)
	require.Len(t, lines, len(pcs))
	assert.GreaterOrEqual(t, cache.Len(), stack.DefaultDepth)
	for i := 0; i < stack.NumShapes; i++ {
		assert.Contains(t, strings.Join(lines, "\n"), ".(*"+stack.ShapeName(i)+").Invoke(")
	}

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(len(pcs)), hits+misses)
	assert.Equal(t, uint64(cache.Len()), misses)

	again := cache.Resolve(pcs)
	assert.Equal(t, lines, again)
	hits2, misses2 := cache.Stats()
	assert.Equal(t, misses, misses2)
	assert.Equal(t, hits+uint64(len(pcs)), hits2)
}

func TestFrameCacheZeroValue(t *testing.T) {
	var cache layout.FrameCache
	lines := cache.Resolve(stack.Simple("flat").Callers())
	assert.NotEmpty(t, lines)
	assert.Equal(t, len(lines), cache.Len())
}

func TestTextFormat(t *testing.T) {
	th := stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
	logger, buf := newLogger(&layout.TextFormat{Cache: layout.NewFrameCache()})

	logger.WithField("error", th).Debug("This is a debug message")

	out := buf.String()
	assert.Contains(t, out, `level="debug"`)
	assert.Contains(t, out, `msg="This is a debug message"`)
	assert.Contains(t, out, `error="Test Throwable"`)
	assert.GreaterOrEqual(t, strings.Count(out, "\n\tat "), stack.DefaultDepth)
	assert.Contains(t, out, ".(*layer30).Invoke(")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestTextFormatWithoutTrace(t *testing.T) {
	logger, buf := newLogger(&layout.TextFormat{})

	logger.WithField("port", 80).Info("plain entry")

	out := buf.String()
	assert.Contains(t, out, `port="80"`)
	assert.NotContains(t, out, "\tat ")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestTextFormatCaller(t *testing.T) {
	logger, buf := newLogger(&layout.TextFormat{Caller: true})

	logger.Debug("where")

	assert.Contains(t, buf.String(), `caller="log_format_test.go:`)
	assert.Contains(t, buf.String(), "TestTextFormatCaller")
}

func TestJSONFormat(t *testing.T) {
	th := stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
	logger, buf := newLogger(&layout.JSONFormat{Cache: layout.NewFrameCache()})

	logger.WithField("error", th).Debug("This is a debug message")

	var entry struct {
		Level   string   `json:"level"`
		Message string   `json:"msg"`
		Trace   []string `json:"trace"`
		Data    []struct {
			Key string
			Msg string
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry.Level)
	assert.Equal(t, "This is a debug message", entry.Message)
	assert.GreaterOrEqual(t, len(entry.Trace), stack.DefaultDepth)
	fields := map[string]string{}
	for _, d := range entry.Data {
		fields[d.Key] = d.Msg
	}
	assert.Equal(t, stack.Message, fields["error"])
}

func TestJSONFormatLevels(t *testing.T) {
	logger, buf := newLogger(&layout.JSONFormat{})
	for _, tc := range []struct {
		name string
		log  func(msg string)
	}{
		{"info", func(msg string) { logger.Info(msg) }},
		{"warn", func(msg string) { logger.Warn(msg) }},
		{"error", func(msg string) { logger.Error(msg) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()
			tc.log("level " + tc.name)

			var entry struct {
				Level   string `json:"level"`
				Message string `json:"msg"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.name, entry.Level)
			assert.Equal(t, "level "+tc.name, entry.Message)
		})
	}
}

func TestTextFormatLevel(t *testing.T) {
	logger, buf := newLogger(&layout.TextFormat{})
	logger.Warn("careful")
	assert.Contains(t, buf.String(), `level="warn"`)
}

func BenchmarkTextFormat(b *testing.B) {
	th := stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
	logger, buf := newLogger(&layout.TextFormat{Cache: layout.NewFrameCache()})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		logger.WithField("error", th).Debug("This is a debug message")
	}
}
