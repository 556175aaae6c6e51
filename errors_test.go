// errors_test.go
package koicore

import (
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	e := &Error{Kind: ErrUnexpectedChar, Msg: "unexpected character ')'", Source: "script.koi", Line: 3, Col: 12}
	if got := e.Format(); got != "script.koi:3:12: UnexpectedChar: unexpected character ')'" {
		t.Fatalf("got %q", got)
	}

	// No position: the line/column segment is dropped.
	e = &Error{Kind: ErrIO, Msg: "read failed", Source: "script.koi"}
	if got := e.Format(); got != "script.koi: IoError: read failed" {
		t.Fatalf("got %q", got)
	}

	// No source either.
	e = &Error{Kind: ErrTypeMismatch, Msg: "value is int, not float"}
	if got := e.Format(); got != "TypeMismatch: value is int, not float" {
		t.Fatalf("got %q", got)
	}

	// Error() matches Format().
	if e.Error() != e.Format() {
		t.Fatal("Error() != Format()")
	}
}

func TestErrorKindNames(t *testing.T) {
	want := map[ErrorKind]string{
		ErrUnexpectedChar:     "UnexpectedChar",
		ErrUnterminatedString: "UnterminatedString",
		ErrInvalidEscape:      "InvalidEscape",
		ErrInvalidNumber:      "InvalidNumber",
		ErrNumberOverflow:     "NumberOverflow",
		ErrMixedComposite:     "MixedComposite",
		ErrUnclosedParen:      "UnclosedParen",
		ErrUnexpectedComma:    "UnexpectedComma",
		ErrUnexpectedColon:    "UnexpectedColon",
		ErrEmptyCommandName:   "EmptyCommandName",
		ErrReservedName:       "ReservedName",
		ErrTypeMismatch:       "TypeMismatch",
		ErrIndexOutOfBounds:   "IndexOutOfBounds",
		ErrDuplicateKey:       "DuplicateKey",
		ErrEncoding:           "EncodingError",
		ErrIO:                 "IoError",
		ErrInvalidUTF8:        "InvalidUtf8",
	}
	for k, name := range want {
		if k.String() != name {
			t.Fatalf("%d: got %q, want %q", k, k.String(), name)
		}
	}
}

func TestTraceback(t *testing.T) {
	p := NewParser(NewNamedStringSource("bad.koi", `#draw pos(x: 1))`), DefaultParserConfig())
	if cmd := p.Next(); cmd != nil {
		t.Fatalf("got %s", cmd)
	}
	e := p.Err()
	if e == nil {
		t.Fatal("expected error")
	}
	tb := e.Traceback()
	if !strings.Contains(tb, "bad.koi:1:16") {
		t.Fatalf("traceback missing position:\n%s", tb)
	}
	if !strings.Contains(tb, "#draw pos(x: 1))") {
		t.Fatalf("traceback missing source line:\n%s", tb)
	}
	// The caret sits under column 16.
	lines := strings.Split(tb, "\n")
	caretLine := ""
	for _, ln := range lines {
		if strings.Contains(ln, "^") {
			caretLine = ln
		}
	}
	if caretLine == "" {
		t.Fatalf("no caret:\n%s", tb)
	}
	if got := strings.Index(caretLine, "^") - strings.Index(lines[len(lines)-3], "#"); got != 15 {
		t.Fatalf("caret offset = %d:\n%s", got, tb)
	}

	// Without position data Traceback degrades to Format.
	e = &Error{Kind: ErrIO, Msg: "boom"}
	if e.Traceback() != e.Format() {
		t.Fatal("positionless traceback should equal Format")
	}
}
