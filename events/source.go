package events

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hpcloud/tail"
)

// LineSource yields decoded text lines. ReadLine returns io.EOF once the
// input is exhausted.
type LineSource interface {
	ReadLine() (string, error)
}

// KeySource yields decoded key presses. Any error ends the key producer.
type KeySource interface {
	ReadKey() (Key, error)
}

// ReaderLines reads newline separated lines from an io.Reader such as stdin.
type ReaderLines struct {
	r *bufio.Reader
}

// NewReaderLines wraps r in a line reader
func NewReaderLines(r io.Reader) *ReaderLines {
	return &ReaderLines{r: bufio.NewReaderSize(r, 64*1024)}
}

// ReadLine returns the next line without its line terminator. A final
// unterminated line is returned before io.EOF.
func (rl *ReaderLines) ReadLine() (string, error) {
	line, err := rl.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return trimEOL(line), nil
		}
		return "", err
	}
	return trimEOL(line), nil
}

// TailLines follows a file by name, reopening it when it is rotated.
type TailLines struct {
	t *tail.Tail
}

// TailFile starts following path from its first line
func TailFile(path string) (*TailLines, error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("follow %s: %w", path, err)
	}
	return &TailLines{t: t}, nil
}

// ReadLine blocks until the followed file grows by a line. It returns
// io.EOF once the tail has been stopped.
func (tl *TailLines) ReadLine() (string, error) {
	line, ok := <-tl.t.Lines
	if !ok {
		if err := tl.t.Err(); err != nil && err != tail.ErrStop {
			return "", err
		}
		return "", io.EOF
	}
	if line.Err != nil {
		return "", line.Err
	}
	return trimEOL(line.Text), nil
}

// Close stops following the file
func (tl *TailLines) Close() error {
	return tl.t.Stop()
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
