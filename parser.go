// parser.go — line classifier and streaming parser driver.
//
// OVERVIEW
// --------
// The Parser pulls one logical line at a time from its InputSource and
// classifies it by counting leading # characters against the configured
// command threshold:
//
//	count < threshold   text line        → @text command
//	count = threshold   command line     → parsed by the line lexer
//	count > threshold   annotation line  → @annotation command
//
// Empty lines are skipped (or preserved as empty @text commands), and
// annotations can be skipped wholesale. A command whose name is a decimal
// integer becomes an @number command when the config asks for it.
//
// The driver is a cooperative single-step state machine: each Next call
// yields at most one command and never reads past the current line. It
// never returns an error directly — a failed parse latches the error on
// the parser and Next returns nil until Err is called, which consumes and
// clears the latch. nil from Next with a nil Err means end of input.
package koicore

import (
	"io"
	"strconv"
	"strings"
)

// Parser is the streaming KoiLang parser. A Parser owns its input source
// for its entire lifetime and must not be shared between goroutines.
type Parser struct {
	in     *input
	cfg    ParserConfig
	latch  *Error
	eof    bool
	curNum int // line number of the last line processed
}

// NewParser builds a parser over src with the given configuration.
func NewParser(src InputSource, cfg ParserConfig) *Parser {
	return (&Parser{in: newInput(src)}).withConfig(cfg)
}

func (p *Parser) withConfig(cfg ParserConfig) *Parser {
	if cfg.CommandThreshold < 0 {
		cfg.CommandThreshold = 0
	}
	p.cfg = cfg
	return p
}

// Next returns the next command, or nil when no command is available:
// either end of input (Err returns nil) or a latched error (Err returns
// it). After an error the parser is positioned past the offending line;
// consuming the error allows parsing to resume.
func (p *Parser) Next() *Command {
	if p.latch != nil || p.eof {
		return nil
	}
	for {
		lineno, line, err := p.in.nextLine()
		if err != nil {
			if err == io.EOF {
				p.eof = true
				return nil
			}
			e := wrapIO(err)
			e.Source = p.in.source.SourceName()
			p.latch = e
			return nil
		}
		p.curNum = lineno

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if p.cfg.PreserveEmptyLines {
				return NewText("")
			}
			continue
		}

		hashes := 0
		for hashes < len(trimmed) && trimmed[hashes] == '#' {
			hashes++
		}

		switch {
		case hashes < p.cfg.CommandThreshold:
			if p.cfg.PreserveIndent {
				return NewText(strings.TrimRight(line, " \t"))
			}
			return NewText(trimmed)

		case hashes > p.cfg.CommandThreshold:
			if p.cfg.SkipAnnotations {
				continue
			}
			if p.cfg.PreserveIndent {
				return NewAnnotation(strings.TrimRight(line, " \t"))
			}
			return NewAnnotation(trimmed)

		default:
			indent := leadingRunes(line, trimmed)
			cmd, perr := parseCommandBody(trimmed[hashes:], indent+hashes)
			if perr != nil {
				perr.Source = p.in.source.SourceName()
				perr.Line = lineno
				perr.LineText = line
				p.latch = perr
				return nil
			}
			if p.cfg.ConvertNumberCommand {
				if n, err := strconv.ParseInt(cmd.name, 10, 64); err == nil {
					return NewNumber(n, cmd.params...)
				}
			}
			return cmd
		}
	}
}

// leadingRunes counts the characters line has before trimmed starts.
func leadingRunes(line, trimmed string) int {
	prefix := line[:strings.Index(line, trimmed)]
	n := 0
	for range prefix {
		n++
	}
	return n
}

// Err returns the latched error, if any, and clears the latch. The
// combination Next() == nil and Err() == nil signals end of input.
func (p *Parser) Err() *Error {
	e := p.latch
	p.latch = nil
	return e
}

// AtEOF reports whether the input source is exhausted.
func (p *Parser) AtEOF() bool { return p.eof }

// CurrentLine returns the 1-based number of the most recently processed
// input line.
func (p *Parser) CurrentLine() int {
	if p.curNum == 0 {
		return 1
	}
	return p.curNum
}

// SourceName reports the name of the owned input source.
func (p *Parser) SourceName() string { return p.in.source.SourceName() }

// Close releases the owned input source if it holds resources.
func (p *Parser) Close() error {
	if c, ok := p.in.source.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ProcessWith feeds every command to handler until end of input, an
// error, or the handler asks to stop. It reports whether end of input was
// reached; a parse error is consumed from the latch and returned.
func (p *Parser) ProcessWith(handler func(*Command) (bool, error)) (bool, error) {
	for {
		cmd := p.Next()
		if cmd == nil {
			if e := p.Err(); e != nil {
				return false, e
			}
			return true, nil
		}
		cont, err := handler(cmd)
		if err != nil {
			return false, err
		}
		if !cont {
			return false, nil
		}
	}
}

// ParseString parses an entire in-memory document and returns all of its
// commands. Convenience over the streaming interface.
func ParseString(content string, cfg ParserConfig) ([]*Command, error) {
	p := NewParser(NewStringSource(content), cfg)
	var cmds []*Command
	for {
		cmd := p.Next()
		if cmd == nil {
			if e := p.Err(); e != nil {
				return cmds, e
			}
			return cmds, nil
		}
		cmds = append(cmds, cmd)
	}
}
