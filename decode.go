// decode.go — streaming byte→UTF-8 decoding for encoded inputs.
//
// DecodeBufReader converts a byte stream in a named codec ("utf-8",
// "utf-16", "gbk", any IANA charset name golang.org/x/text knows) into
// UTF-8 lines. Sequences that straddle read boundaries are buffered by
// the transform layer, so output depends only on the input bytes and the
// error strategy, never on chunk sizes.
//
// Invalid sequences are handled per EncodingStrategy: Strict fails the
// read with an EncodingError, Replace yields one U+FFFD per invalid
// sub-sequence, Ignore drops them.
package koicore

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingStrategy selects how decoding errors are handled.
type EncodingStrategy int

const (
	// StrategyStrict fails the read on the first invalid sequence.
	StrategyStrict EncodingStrategy = iota
	// StrategyReplace substitutes U+FFFD for each invalid sub-sequence.
	StrategyReplace
	// StrategyIgnore drops invalid sub-sequences.
	StrategyIgnore
)

const defaultDecodeBufferSize = 8192

// lookupEncoding resolves a codec name to an encoding. UTF-8 and UTF-16
// are special-cased; everything else goes through the IANA index.
func lookupEncoding(name string) (encoding.Encoding, *Error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16le", "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case "utf-16be", "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, newError(ErrEncoding, "unknown encoding "+name)
	}
	return enc, nil
}

// DecodeBufReader reads lines of UTF-8 text from an arbitrarily encoded
// byte stream.
type DecodeBufReader struct {
	r        *bufio.Reader
	strategy EncodingStrategy
}

// NewDecodeBufReader wraps r with a decoder for the named encoding.
func NewDecodeBufReader(r io.Reader, encodingName string, strategy EncodingStrategy) (*DecodeBufReader, *Error) {
	return NewDecodeBufReaderSize(r, encodingName, strategy, defaultDecodeBufferSize)
}

// NewDecodeBufReaderSize is NewDecodeBufReader with an explicit buffer
// size. The buffer size affects throughput only, never output.
func NewDecodeBufReaderSize(r io.Reader, encodingName string, strategy EncodingStrategy, bufSize int) (*DecodeBufReader, *Error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	if bufSize < 16 {
		bufSize = 16
	}
	// The decoder replaces invalid sequences with U+FFFD; Strict and
	// Ignore are applied on top of that per line.
	tr := transform.NewReader(r, enc.NewDecoder())
	return &DecodeBufReader{
		r:        bufio.NewReaderSize(tr, bufSize),
		strategy: strategy,
	}, nil
}

// NextLine returns the next decoded line without its terminator, or
// io.EOF. Under StrategyStrict a line containing a decoding failure is an
// EncodingError.
func (d *DecodeBufReader) NextLine() (string, error) {
	line, err := readTerminatedLine(d.r)
	if err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", newError(ErrEncoding, err.Error())
	}
	if strings.ContainsRune(line, '�') {
		switch d.strategy {
		case StrategyStrict:
			return "", newError(ErrEncoding, "invalid byte sequence for encoding")
		case StrategyIgnore:
			line = strings.ReplaceAll(line, "�", "")
		}
	}
	return line, nil
}

// ReadAll decodes the remaining input as one string, joining lines with
// \n. Mostly useful in tests and small tools.
func (d *DecodeBufReader) ReadAll() (string, error) {
	var b strings.Builder
	first := true
	for {
		line, err := d.NextLine()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
		if !first {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		first = false
	}
}
