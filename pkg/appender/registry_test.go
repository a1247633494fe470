package appender

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkenney/log-bench/pkg/stack"
)

func testConfig(dir string) *Config {
	return &Config{
		Level:  "debug",
		Format: FormatText,
		Appenders: []AppenderConfig{
			{Name: "File", Type: TypeFile, Path: filepath.Join(dir, "file.log")},
			{Name: "Buffered", Type: TypeFile, Path: filepath.Join(dir, "buffered.log"), Buffered: true, BufferSize: 1 << 16},
			{Name: "Rolling", Type: TypeRolling, Path: filepath.Join(dir, "rolling", "rolling.log"), MaxSize: 1, MaxBackups: 3},
		},
		Loggers: []LoggerConfig{
			{Name: RootLogger, Appender: "File"},
			{Name: "buffered", Appender: "Buffered"},
			{Name: "rolling", Appender: "Rolling"},
			{Name: "quiet", Appender: "File", Level: "warn"},
		},
	}
}

func readFile(t *testing.T, file string) string {
	t.Helper()
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	return string(b)
}

func TestOpenWritesEveryAppender(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	registry, err := Open(cfg)
	require.NoError(t, err)

	th := stack.MustSynthesize(stack.DefaultDepth, stack.NumShapes)
	for _, name := range []string{RootLogger, "buffered", "rolling"} {
		registry.Logger(name).WithField("error", th).Debug("This is a debug message")
	}
	require.NoError(t, registry.Close())

	for _, a := range cfg.Appenders {
		out := readFile(t, a.Path)
		assert.Contains(t, out, `msg="This is a debug message"`, a.Name)
		assert.Contains(t, out, ".(*layer30).Invoke(", a.Name)
	}
	assert.GreaterOrEqual(t, registry.Cache().Len(), stack.DefaultDepth)
}

func TestOpenJSON(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Format = FormatJSON
	registry, err := Open(cfg)
	require.NoError(t, err)

	registry.Logger(RootLogger).Debug("json entry")
	require.NoError(t, registry.Close())

	assert.Contains(t, readFile(t, cfg.Appenders[0].Path), `"msg":"json entry"`)
}

func TestLoggerFallsBackToRoot(t *testing.T) {
	registry, err := Open(testConfig(t.TempDir()))
	require.NoError(t, err)
	defer registry.Close()

	assert.Same(t, registry.Logger(RootLogger), registry.Logger("does.not.Exist"))
	assert.NotSame(t, registry.Logger(RootLogger), registry.Logger("rolling"))
}

func TestLoggerLevelOverride(t *testing.T) {
	cfg := testConfig(t.TempDir())
	registry, err := Open(cfg)
	require.NoError(t, err)

	registry.Logger("quiet").Debug("dropped")
	registry.Logger("quiet").Warn("kept")
	require.NoError(t, registry.Close())

	out := readFile(t, cfg.Appenders[0].Path)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestBufferedAppenderFlush(t *testing.T) {
	cfg := testConfig(t.TempDir())
	registry, err := Open(cfg)
	require.NoError(t, err)
	defer registry.Close()

	registry.Logger("buffered").Info("pending")
	assert.Empty(t, readFile(t, cfg.Appenders[1].Path))

	require.NoError(t, registry.Flush())
	assert.Contains(t, readFile(t, cfg.Appenders[1].Path), "pending")
}

func TestOpenInvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Format = "xml"
	registry, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, registry)
}

func TestOpenAppenderFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	cfg := testConfig(dir)
	cfg.Appenders[1].Path = filepath.Join(blocker, "nested", "buffered.log")
	registry, err := Open(cfg)
	assert.Error(t, err)
	assert.Nil(t, registry)

	assert.NoError(t, Remove(cfg))
}

func TestRollingFilesAndRemove(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	rolling := cfg.Appenders[2]

	a, err := New(rolling)
	require.NoError(t, err)
	// two writes that together exceed max_size roll the file over
	chunk := bytes.Repeat([]byte("x"), 600*1024)
	_, err = a.Write(chunk)
	require.NoError(t, err)
	_, err = a.Write(chunk)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	files := Files(rolling)
	require.Len(t, files, 2)
	assert.Equal(t, rolling.Path, files[0])
	assert.True(t, strings.HasPrefix(filepath.Base(files[1]), "rolling-"), files[1])

	f, err := New(cfg.Appenders[0])
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, Remove(cfg))
	for _, a := range cfg.Appenders {
		for _, file := range Files(a) {
			_, err := os.Stat(file)
			assert.True(t, os.IsNotExist(err), file)
		}
	}
	_, err = os.Stat(files[1])
	assert.True(t, os.IsNotExist(err))

	// Nothing left to delete.
	assert.NoError(t, Remove(cfg))
}

func TestFileAppenderAppends(t *testing.T) {
	cfg := AppenderConfig{Name: "f", Type: TypeFile, Path: filepath.Join(t.TempDir(), "f.log")}
	for _, line := range []string{"one\n", "two\n"} {
		a, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, "f", a.Name())
		_, err = a.Write([]byte(line))
		require.NoError(t, err)
		require.NoError(t, a.Close())
	}
	assert.Equal(t, "one\ntwo\n", readFile(t, cfg.Path))
}
