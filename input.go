// input.go — pluggable line sources for the parser.
//
// An InputSource produces one physical line at a time, already decoded to
// UTF-8 and stripped of its terminator. The parser wraps its source in an
// internal line assembler that numbers lines and joins continuations
// (a trailing backslash removes the backslash and substitutes one space).
//
// Built-in sources: in-memory string, UTF-8 file, encoded file via
// DecodeBufReader, any io.Reader, and a caller-supplied callback.
package koicore

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// InputSource is the single capability the parser needs: the next physical
// line as UTF-8, or io.EOF when the input is exhausted. SourceName names
// the origin for error reporting.
type InputSource interface {
	NextLine() (string, error)
	SourceName() string
}

// splitLines breaks a buffer into lines on \n, \r\n, or a bare \r. The
// final line is kept even without a trailing terminator; a trailing
// terminator does not produce a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			lines = append(lines, content[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, content[start:i])
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// StringSource yields lines from an in-memory buffer.
type StringSource struct {
	lines []string
	pos   int
	name  string
}

// NewStringSource builds a source over content, named "<string>".
func NewStringSource(content string) *StringSource {
	return &StringSource{lines: splitLines(content), name: "<string>"}
}

// NewNamedStringSource builds a string source with an explicit name.
func NewNamedStringSource(name, content string) *StringSource {
	return &StringSource{lines: splitLines(content), name: name}
}

func (s *StringSource) NextLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func (s *StringSource) SourceName() string { return s.name }

// readTerminatedLine reads one line from r, handling \n, \r\n, and bare
// \r terminators. Returns the line without its terminator; io.EOF is
// returned only when no data precedes it.
func readTerminatedLine(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		ch, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		switch ch {
		case '\n':
			return b.String(), nil
		case '\r':
			if next, err := r.Peek(1); err == nil && next[0] == '\n' {
				r.ReadByte()
			}
			return b.String(), nil
		default:
			b.WriteByte(ch)
		}
	}
}

// FileSource yields lines from a file. Plain construction assumes UTF-8;
// NewEncodedFileSource routes the bytes through a DecodeBufReader first.
type FileSource struct {
	f    *os.File
	r    *bufio.Reader
	dec  *DecodeBufReader
	name string
}

// NewFileSource opens a UTF-8 file as an input source.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	return &FileSource{f: f, r: bufio.NewReader(f), name: path}, nil
}

// NewEncodedFileSource opens a file in the named encoding (e.g. "utf-16",
// "gbk") and decodes it to UTF-8 on the fly under the given strategy.
func NewEncodedFileSource(path, encoding string, strategy EncodingStrategy) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	dec, derr := NewDecodeBufReader(f, encoding, strategy)
	if derr != nil {
		f.Close()
		return nil, derr
	}
	return &FileSource{f: f, dec: dec, name: path}, nil
}

func (s *FileSource) NextLine() (string, error) {
	if s.dec != nil {
		return s.dec.NextLine()
	}
	line, err := readTerminatedLine(s.r)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(line) {
		return "", newError(ErrInvalidUTF8, "invalid UTF-8 in input")
	}
	return line, nil
}

func (s *FileSource) SourceName() string { return s.name }

// Close releases the underlying file.
func (s *FileSource) Close() error { return s.f.Close() }

// ReaderSource yields lines from any io.Reader, assumed UTF-8.
type ReaderSource struct {
	r    *bufio.Reader
	name string
}

// NewReaderSource wraps an io.Reader as an input source.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{r: bufio.NewReader(r), name: name}
}

func (s *ReaderSource) NextLine() (string, error) {
	return readTerminatedLine(s.r)
}

func (s *ReaderSource) SourceName() string { return s.name }

// FuncSource forwards NextLine to a caller-supplied function. The function
// returns io.EOF to end the stream; any other error surfaces as an IoError.
type FuncSource struct {
	next func() (string, error)
	name string
}

// NewFuncSource builds a callback-backed input source.
func NewFuncSource(name string, next func() (string, error)) *FuncSource {
	return &FuncSource{next: next, name: name}
}

func (s *FuncSource) NextLine() (string, error) { return s.next() }

func (s *FuncSource) SourceName() string { return s.name }

// input numbers physical lines and assembles logical lines. A physical
// line whose trimmed form ends in a backslash continues on the next line:
// the backslash is removed and a single space substituted.
type input struct {
	source InputSource
	lineNo int // number of the next physical line to be read, 1-based
}

func newInput(source InputSource) *input {
	return &input{source: source, lineNo: 1}
}

// nextLine returns the next logical line and the physical line number it
// started on.
func (in *input) nextLine() (int, string, error) {
	var cache strings.Builder
	startLine := in.lineNo
	joined := false
	for {
		line, err := in.source.NextLine()
		if err != nil {
			if err == io.EOF && joined {
				// Continuation at EOF: yield what we have.
				return startLine, cache.String(), nil
			}
			return startLine, "", err
		}
		in.lineNo++
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "\\") {
			cache.WriteString(trimmed[:len(trimmed)-1])
			cache.WriteByte(' ')
			joined = true
			continue
		}
		if joined {
			cache.WriteString(line)
			return startLine, cache.String(), nil
		}
		return startLine, line, nil
	}
}
