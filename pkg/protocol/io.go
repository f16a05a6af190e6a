package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader reads commands one line at a time.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, MaxLineLength+1)}
}

// ReadCommand reads and parses the next line. It returns io.EOF when the
// input ends cleanly between lines; a final line without a newline is
// malformed.
func (r *Reader) ReadCommand() (Command, error) {
	line, err := r.readLine()
	if err != nil {
		return Command{}, err
	}
	return Parse(line)
}

func (r *Reader) readLine() (string, error) {
	var b strings.Builder
	for {
		chunk, err := r.r.ReadSlice('\n')
		b.Write(chunk)
		if b.Len() > MaxLineLength {
			// Drain the rest so the caller sees one error per line.
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = r.r.ReadSlice('\n')
			}
			return "", &SyntaxError{Line: truncate(b.String()), Message: fmt.Sprintf("longer than %d bytes", MaxLineLength-1)}
		}
		switch {
		case err == nil:
			return strings.TrimSuffix(b.String(), "\n"), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if b.Len() == 0 {
				return "", io.EOF
			}
			return "", &SyntaxError{Line: b.String(), Message: "missing newline at end of input"}
		default:
			return "", fmt.Errorf("read command: %w", err)
		}
	}
}

func truncate(s string) string {
	if len(s) > 32 {
		return s[:32] + "..."
	}
	return s
}

// Writer prints commands, flushing after every line so the peer sees each
// action as soon as it is taken.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteCommand writes c followed by a newline and flushes.
func (w *Writer) WriteCommand(c Command) error {
	if _, err := w.w.WriteString(c.String()); err != nil {
		return fmt.Errorf("write %s: %w", c.Name, err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write %s: %w", c.Name, err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", c.Name, err)
	}
	return nil
}
