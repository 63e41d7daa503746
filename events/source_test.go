package events

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderLines(t *testing.T) {
	t.Run("strips line terminators", func(t *testing.T) {
		rl := NewReaderLines(strings.NewReader("alpha\r\nbeta\n\ngamma"))

		var got []string
		for {
			line, err := rl.ReadLine()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			got = append(got, line)
		}
		assert.Equal(t, []string{"alpha", "beta", "", "gamma"}, got)
	})

	t.Run("empty input is end of input", func(t *testing.T) {
		rl := NewReaderLines(strings.NewReader(""))
		_, err := rl.ReadLine()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("keeps lines longer than the read buffer", func(t *testing.T) {
		long := strings.Repeat("x", 200*1024)
		rl := NewReaderLines(strings.NewReader(long + "\n"))
		line, err := rl.ReadLine()
		require.NoError(t, err)
		assert.Len(t, line, len(long))
	})
}

func TestTailFile(t *testing.T) {
	t.Run("reads existing lines and ends after close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

		tl, err := TailFile(path)
		require.NoError(t, err)

		assert.Equal(t, "one", readLineWithin(t, tl, 5*time.Second))
		assert.Equal(t, "two", readLineWithin(t, tl, 5*time.Second))

		require.NoError(t, tl.Close())
		_, err = tl.ReadLine()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := TailFile(filepath.Join(t.TempDir(), "absent.log"))
		assert.Error(t, err)
	})
}

func readLineWithin(t *testing.T, src LineSource, d time.Duration) string {
	t.Helper()
	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := src.ReadLine()
		done <- result{line, err}
	}()
	select {
	case r := <-done:
		require.NoError(t, r.err)
		return r.line
	case <-time.After(d):
		t.Fatalf("no line within %s", d)
		return ""
	}
}
