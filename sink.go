// sink.go — pluggable byte sinks for the writer.
package koicore

import (
	"bufio"
	"bytes"
	"os"
)

// Sink is where the writer sends its bytes. Write follows the io.Writer
// contract; Flush pushes buffered bytes downstream and is idempotent.
type Sink interface {
	Write(p []byte) (int, error)
	Flush() error
}

// BufferSink accumulates output in memory.
type BufferSink struct {
	buf bytes.Buffer
}

// NewBufferSink returns an empty in-memory sink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

func (s *BufferSink) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *BufferSink) Flush() error { return nil }

// Content returns the accumulated output as a string.
func (s *BufferSink) Content() string { return s.buf.String() }

// Bytes returns the accumulated output.
func (s *BufferSink) Bytes() []byte { return s.buf.Bytes() }

// Reset discards the accumulated output.
func (s *BufferSink) Reset() { s.buf.Reset() }

// FileSink writes to a file through a buffer.
type FileSink struct {
	f *os.File
	w *bufio.Writer
}

// NewFileSink creates (or truncates) the file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	return &FileSink{f: f, w: bufio.NewWriter(f)}, nil
}

func (s *FileSink) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *FileSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return wrapIO(err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// FuncSink forwards writes to caller-supplied functions. flush may be nil.
type FuncSink struct {
	write func(p []byte) (int, error)
	flush func() error
}

// NewFuncSink builds a callback-backed sink.
func NewFuncSink(write func(p []byte) (int, error), flush func() error) *FuncSink {
	return &FuncSink{write: write, flush: flush}
}

func (s *FuncSink) Write(p []byte) (int, error) { return s.write(p) }

func (s *FuncSink) Flush() error {
	if s.flush == nil {
		return nil
	}
	return s.flush()
}

// writeAll pushes all of p into sink, retrying partial writes.
func writeAll(sink Sink, p []byte) error {
	for len(p) > 0 {
		n, err := sink.Write(p)
		if err != nil {
			return wrapIO(err)
		}
		if n <= 0 {
			return newError(ErrIO, "sink made no progress")
		}
		p = p[n:]
	}
	return nil
}
