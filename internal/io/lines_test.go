package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFlusher is a mock writer that tracks flush calls
type mockFlusher struct {
	bytes.Buffer
	flushCount int
	flushError error
}

func (m *mockFlusher) Flush() error {
	m.flushCount++
	return m.flushError
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestForwardLines(t *testing.T) {
	t.Run("preserves order of numbered lines", func(t *testing.T) {
		var input strings.Builder
		expected := make([]string, 0, 100)
		for i := 1; i <= 100; i++ {
			line := fmt.Sprintf("line %d", i)
			expected = append(expected, line)
			input.WriteString(line + "\n")
		}

		var out bytes.Buffer
		lines, err := ForwardLines(strings.NewReader(input.String()), &out)

		require.NoError(t, err)
		assert.Equal(t, expected, lines)
		assert.Equal(t, input.String(), out.String())
	})

	t.Run("forwards final line without newline", func(t *testing.T) {
		var out bytes.Buffer
		lines, err := ForwardLines(strings.NewReader("A\nB"), &out)

		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, lines)
		assert.Equal(t, "A\nB\n", out.String())
	})

	t.Run("strips carriage returns", func(t *testing.T) {
		var out bytes.Buffer
		lines, err := ForwardLines(strings.NewReader("A\r\nB\r\n"), &out)

		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, lines)
	})

	t.Run("empty input", func(t *testing.T) {
		var out bytes.Buffer
		lines, err := ForwardLines(strings.NewReader(""), &out)

		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.Empty(t, out.String())
	})

	t.Run("handles lines longer than the default scanner buffer", func(t *testing.T) {
		long := strings.Repeat("x", 200*1024)
		lines, err := ForwardLines(strings.NewReader(long+"\nend\n"), io.Discard)

		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Len(t, lines[0], len(long))
		assert.Equal(t, "end", lines[1])
	})

	t.Run("flushes after each line", func(t *testing.T) {
		mf := &mockFlusher{}
		_, err := ForwardLines(strings.NewReader("one\ntwo\nthree\n"), mf)

		require.NoError(t, err)
		assert.Equal(t, 3, mf.flushCount)
		assert.Equal(t, "one\ntwo\nthree\n", mf.String())
	})

	t.Run("keeps reading after write error", func(t *testing.T) {
		lines, err := ForwardLines(strings.NewReader("one\ntwo\n"), failingWriter{})

		assert.EqualError(t, err, "write failed")
		assert.Equal(t, []string{"one", "two"}, lines)
	})

	t.Run("returns flush error", func(t *testing.T) {
		mf := &mockFlusher{flushError: errors.New("flush failed")}
		_, err := ForwardLines(strings.NewReader("one\n"), mf)

		assert.EqualError(t, err, "flush failed")
	})

	t.Run("read error is returned", func(t *testing.T) {
		r := io.MultiReader(strings.NewReader("partial\n"), &errReader{})
		lines, err := ForwardLines(r, io.Discard)

		assert.EqualError(t, err, "read failed")
		assert.Equal(t, []string{"partial"}, lines)
	})
}

type errReader struct{}

func (*errReader) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}
