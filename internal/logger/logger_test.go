package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture points the package logger at a fresh buffer, returning the
// buffer and a cleanup that restores the previous destination.
func capture() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	prevOutput := output
	prevColor := useColor
	output = buf
	useColor = false
	mu.Unlock()
	reconfigure()

	return buf, func() {
		mu.Lock()
		output = prevOutput
		useColor = prevColor
		mu.Unlock()
		reconfigure()
	}
}

func emitAll() {
	Debug("debug line")
	Info("info line")
	Warn("warn line")
	Error("error line")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level  string
		want   []string
		unwant []string
	}{
		{"DEBUG", []string{"debug line", "info line", "warn line", "error line"}, nil},
		{"INFO", []string{"info line", "warn line", "error line"}, []string{"debug line"}},
		{"WARN", []string{"warn line", "error line"}, []string{"debug line", "info line"}},
		{"ERROR", []string{"error line"}, []string{"debug line", "info line", "warn line"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf, cleanup := capture()
			defer cleanup()

			SetLevel(tt.level)
			emitAll()

			got := buf.String()
			for _, s := range tt.want {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.unwant {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("ERROR")
	Info("suppressed")
	buf.Reset()

	SetLevel("INFO")
	Info("emitted")
	assert.Contains(t, buf.String(), "emitted")
	assert.NotContains(t, buf.String(), "suppressed")

	// Case does not matter.
	buf.Reset()
	SetLevel("dEbUg")
	Debug("lowercase works")
	assert.Contains(t, buf.String(), "lowercase works")

	// Unknown names leave the level alone.
	SetLevel("INFO")
	SetLevel("VERBOSE")
	buf.Reset()
	Debug("still filtered")
	Info("still shown")
	assert.NotContains(t, buf.String(), "still filtered")
	assert.Contains(t, buf.String(), "still shown")
}

func TestTextFormat(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("DEBUG")
	SetFormat("text")
	emitAll()

	got := buf.String()
	assert.Regexp(t, `\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]`, got)
	for _, tag := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		assert.Contains(t, got, tag)
	}

	buf.Reset()
	Info("session opened", "username", "alice", "database", "store")
	assert.Contains(t, buf.String(), "username=alice")
	assert.Contains(t, buf.String(), "database=store")

	// Empty and multi-line messages still get a level tag.
	buf.Reset()
	Info("")
	assert.Contains(t, buf.String(), "[INFO]")
	buf.Reset()
	Info("first\nsecond")
	assert.Contains(t, buf.String(), "first")
	assert.Contains(t, buf.String(), "second")
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")

	Info("script executed", "commands", 3, "database", "store")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "script executed", entry["msg"])
	assert.Equal(t, float64(3), entry["commands"])
	assert.Equal(t, "store", entry["database"])
	assert.Contains(t, entry, "time")
}

func TestSetFormat(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("text")
	Info("plain")
	assert.Contains(t, buf.String(), "[INFO]")

	buf.Reset()
	SetFormat("json")
	Info("structured")
	assert.True(t, json.Valid([]byte(strings.TrimSpace(buf.String()))))

	// Unknown formats are ignored.
	buf.Reset()
	SetFormat("text")
	SetFormat("xml")
	Info("still text")
	assert.Contains(t, buf.String(), "[INFO]")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestContextFields(t *testing.T) {
	t.Run("InjectsLogContext", func(t *testing.T) {
		buf, cleanup := capture()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("json")

		ctx := WithContext(context.Background(), &LogContext{
			RequestID: "req-7",
			Username:  "alice",
			Database:  "store",
			Command:   "database.select",
			ClientIP:  "10.0.0.9",
		})
		InfoCtx(ctx, "query finished", "matched", 12)

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
		assert.Equal(t, "req-7", entry["request_id"])
		assert.Equal(t, "alice", entry["username"])
		assert.Equal(t, "store", entry["database"])
		assert.Equal(t, "database.select", entry["command"])
		assert.Equal(t, "10.0.0.9", entry["client_ip"])
		assert.Equal(t, float64(12), entry["matched"])
	})

	t.Run("NilContext", func(t *testing.T) {
		buf, cleanup := capture()
		defer cleanup()

		SetLevel("INFO")
		require.NotPanics(t, func() { InfoCtx(nil, "no context") })
		assert.Contains(t, buf.String(), "no context")
	})

	t.Run("BareContext", func(t *testing.T) {
		buf, cleanup := capture()
		defer cleanup()

		SetLevel("INFO")
		InfoCtx(context.Background(), "plain context")
		assert.Contains(t, buf.String(), "plain context")
	})
}

func TestLogContext(t *testing.T) {
	lc := NewLogContext("10.0.0.9")
	assert.Equal(t, "10.0.0.9", lc.ClientIP)
	assert.False(t, lc.StartTime.IsZero())
	assert.GreaterOrEqual(t, lc.DurationMs(), 0.0)

	// Derived contexts never touch the original.
	withCmd := lc.WithCommand("database.listdir", "store")
	assert.Equal(t, "database.listdir", withCmd.Command)
	assert.Equal(t, "store", withCmd.Database)
	assert.Empty(t, lc.Command)

	withUser := lc.WithUser("alice")
	assert.Equal(t, "alice", withUser.Username)
	assert.Empty(t, lc.Username)

	clone := withCmd.Clone()
	clone.Command = "database.delete"
	assert.Equal(t, "database.listdir", withCmd.Command)

	var nilCtx *LogContext
	assert.Nil(t, nilCtx.Clone())
}

func TestFieldConstructors(t *testing.T) {
	cmd := Command("database.newfile")
	assert.Equal(t, KeyCommand, cmd.Key)
	assert.Equal(t, "database.newfile", cmd.Value.String())

	assert.Empty(t, Err(nil).Key)

	e := Err(assert.AnError)
	assert.Equal(t, KeyError, e.Key)
	assert.Contains(t, e.Value.String(), "assert.AnError")
}

func TestPrintfVariants(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("DEBUG")
	Debugf("loaded %d entries", 4)
	Infof("database %s ready", "store")
	Warnf("slow query: %dms", 250)
	Errorf("store failure: %v", "disk full")

	got := buf.String()
	assert.Contains(t, got, "loaded 4 entries")
	assert.Contains(t, got, "database store ready")
	assert.Contains(t, got, "slow query: 250ms")
	assert.Contains(t, got, "store failure: disk full")
}

func TestConcurrentLogging(t *testing.T) {
	buf, cleanup := capture()
	defer cleanup()

	SetLevel("INFO")

	const workers = 10
	const perWorker = 100

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				Info("worker log", "id", id, "n", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, workers*perWorker)
}

func TestConcurrentLevelChanges(t *testing.T) {
	// Level changes rebuild the handler, so write to io.Discard rather
	// than a non-synchronized buffer.
	InitWithWriter(io.Discard, "DEBUG", "text", false)
	defer func() {
		mu.Lock()
		output = os.Stdout
		mu.Unlock()
		reconfigure()
	}()

	const workers = 5
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if j%2 == 0 {
					SetLevel("DEBUG")
				} else {
					SetLevel("ERROR")
				}
			}
		}()
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				Debug("d", "id", id)
				Info("i", "id", id)
				Warn("w", "id", id)
				Error("e", "id", id)
			}
		}(i)
	}

	require.NotPanics(t, wg.Wait)
}

func TestInit(t *testing.T) {
	restore := func() {
		mu.Lock()
		output = os.Stdout
		mu.Unlock()
		reconfigure()
	}

	t.Run("Writer", func(t *testing.T) {
		defer restore()
		buf := new(bytes.Buffer)
		InitWithWriter(buf, "DEBUG", "text", false)
		Debug("writer target")
		assert.Contains(t, buf.String(), "writer target")
	})

	t.Run("Config", func(t *testing.T) {
		defer restore()
		require.NoError(t, Init(Config{Level: "DEBUG", Format: "text", Output: "stdout"}))
	})

	t.Run("EmptyConfig", func(t *testing.T) {
		require.NoError(t, Init(Config{}))
	})

	t.Run("FileOutput", func(t *testing.T) {
		defer restore()
		path := t.TempDir() + "/engine.log"
		require.NoError(t, Init(Config{Level: "INFO", Format: "json", Output: path}))
		Info("persisted entry")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "persisted entry")
	})
}

func BenchmarkLogFiltered(b *testing.B) {
	InitWithWriter(new(bytes.Buffer), "ERROR", "text", false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Debug("filtered", "n", i)
	}
}

func BenchmarkLogText(b *testing.B) {
	InitWithWriter(new(bytes.Buffer), "DEBUG", "text", false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Info("emitted", "n", i)
	}
}

func BenchmarkLogJSON(b *testing.B) {
	InitWithWriter(new(bytes.Buffer), "DEBUG", "json", false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Info("emitted", "n", i)
	}
}
