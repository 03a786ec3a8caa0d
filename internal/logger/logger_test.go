package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// captureOutput redirects logger output to a buffer, restoring the previous
// writer, format and level on cleanup.
func captureOutput(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}

	mu.Lock()
	prevOut, prevColor := output, useColor
	output, useColor = buf, false
	mu.Unlock()
	prevLevel := currentLevel.Load()
	prevFormat, _ := currentFormat.Load().(string)
	reconfigure()

	t.Cleanup(func() {
		mu.Lock()
		output, useColor = prevOut, prevColor
		mu.Unlock()
		currentLevel.Store(prevLevel)
		currentFormat.Store(prevFormat)
		reconfigure()
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		present []string
		absent  []string
	}{
		{"DEBUG", []string{"debug message", "info message", "warn message", "error message"}, nil},
		{"INFO", []string{"info message", "warn message", "error message"}, []string{"debug message"}},
		{"WARN", []string{"warn message", "error message"}, []string{"debug message", "info message"}},
		{"ERROR", []string{"error message"}, []string{"debug message", "info message", "warn message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := captureOutput(t)
			SetLevel(tt.level)

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			out := buf.String()
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	t.Run("CaseInsensitive", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("dEbUg")
		Debug("visible")
		assert.Contains(t, buf.String(), "visible")
		assert.Equal(t, LevelDebug, GetLevel())
	})

	t.Run("InvalidIgnored", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("INFO")
		SetLevel("LOUD")
		Debug("hidden")
		Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Equal(t, LevelInfo, GetLevel())
	})
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("warning")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)

	_, ok = ParseLevel("verbose")
	assert.False(t, ok)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestTextFormat(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("text")

	Info("File content:", KeyContent, "Hello, File System!", "size", 19)

	out := buf.String()
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] File content:`, out)
	assert.Contains(t, out, "content=Hello, File System!")
	assert.Contains(t, out, "size=19")
}

func TestTextFormatGroups(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")

	With("component", "router").WithGroup("http").Info("request", "status", 200)

	out := buf.String()
	assert.Contains(t, out, "component=router")
	assert.Contains(t, out, "http.status=200")
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("json")

	Info("Data fetched successfully!", KeyDurationMs, 2000.5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Data fetched successfully!", entry["msg"])
	assert.Equal(t, 2000.5, entry[KeyDurationMs])
	assert.Contains(t, entry, "time")
}

func TestFormatSwitchIgnoresUnknown(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")
	SetFormat("text")
	SetFormat("xml")

	Info("still text")
	assert.Contains(t, buf.String(), "[INFO] still text")
}

func TestContextLogging(t *testing.T) {
	t.Run("InjectsFields", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("INFO")

		lc := NewLogContext("run-1").WithStage("write")
		lc.RequestID = "req-9"
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "File written successfully.")

		out := buf.String()
		assert.Contains(t, out, "run_id=run-1")
		assert.Contains(t, out, "stage=write")
		assert.Contains(t, out, "request_id=req-9")
	})

	t.Run("FieldsPrecedeArgs", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("INFO")

		ctx := WithContext(context.Background(), NewLogContext("run-2"))
		ErrorCtx(ctx, "Error writing file", KeyError, "boom")

		out := buf.String()
		assert.Less(t, strings.Index(out, "run_id="), strings.Index(out, "error=boom"))
	})

	t.Run("NoLogContext", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("DEBUG")

		DebugCtx(context.Background(), "plain")
		WarnCtx(context.TODO(), "todo ctx")

		assert.Contains(t, buf.String(), "plain")
		assert.Contains(t, buf.String(), "todo ctx")
		assert.NotContains(t, buf.String(), "run_id")
	})
}

func TestLogContext(t *testing.T) {
	lc := NewLogContext("abc")
	assert.Equal(t, "abc", lc.RunID)
	assert.False(t, lc.StartTime.IsZero())

	traced := lc.WithTrace("t1", "s1")
	assert.Equal(t, "t1", traced.TraceID)
	assert.Empty(t, lc.TraceID, "WithTrace must not mutate the receiver")

	var nilCtx *LogContext
	assert.Nil(t, nilCtx.Clone())
	assert.Nil(t, nilCtx.WithStage("read"))
	assert.Zero(t, nilCtx.DurationMs())

	lc.StartTime = time.Now().Add(-50 * time.Millisecond)
	assert.GreaterOrEqual(t, lc.DurationMs(), 50.0)
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "", Err(nil).Key)
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, KeyPath, Path("/tmp/x").Key)
	assert.Equal(t, 1.5, DurationMs(1500*time.Microsecond).Value.Float64())
}

func TestConcurrentLogging(t *testing.T) {
	buf := captureOutput(t)
	SetLevel("INFO")

	const goroutines, perGoroutine = 10, 100
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				Info("tick", "id", id, "n", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, goroutines*perGoroutine)
}

func TestInit(t *testing.T) {
	t.Run("FileOutput", func(t *testing.T) {
		captureOutput(t)
		path := filepath.Join(t.TempDir(), "essentials.log")

		require.NoError(t, Init(Config{Level: "DEBUG", Format: "json", Output: path}))
		Debug("to file")
		t.Cleanup(func() {
			mu.Lock()
			if closer != nil {
				_ = closer.Close()
				closer = nil
			}
			mu.Unlock()
		})

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file"`)
	})

	t.Run("BadFile", func(t *testing.T) {
		captureOutput(t)
		err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
		assert.Error(t, err)
	})

	t.Run("WithWriter", func(t *testing.T) {
		captureOutput(t)
		var buf bytes.Buffer
		InitWithWriter(&buf, "WARN", "text", false)
		Info("hidden")
		Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		InitWithWriter(io.Discard, "", "", false)
	})
}
