// writer.go — serializing commands back to KoiLang text.
//
// The Writer is the parser's inverse: it emits one logical line per
// command, prefixed with the configured number of # characters, applying
// layered formatting options — per-parameter over per-command over the
// global defaults. Integers are written in the radix recorded at parse
// time unless a NumberFormat override reformats them, so a parse/write
// cycle reproduces the source form.
//
// Special commands reverse the classifier: @text emits its payload
// verbatim, @annotation emits threshold+1 # characters (unless the stored
// line already carries them), @number emits the integer in place of a
// command name.
package koicore

import (
	"strconv"
	"strings"
)

// Writer emits commands to a Sink under a WriterConfig.
type Writer struct {
	sink        Sink
	cfg         WriterConfig
	indent      int
	atLineStart bool
}

// NewWriter builds a writer over sink. A fresh writer is at indent level
// zero and considers itself at the start of a line.
func NewWriter(sink Sink, cfg WriterConfig) *Writer {
	if cfg.CommandThreshold < 0 {
		cfg.CommandThreshold = 0
	}
	return &Writer{sink: sink, cfg: cfg, atLineStart: true}
}

// WriteCommand emits cmd using the layered defaults for its name.
func (w *Writer) WriteCommand(cmd *Command) error {
	return w.WriteCommandWith(cmd, nil, nil)
}

// WriteCommandWith emits cmd with ad-hoc command options and per-parameter
// overrides layered over the configuration.
func (w *Writer) WriteCommandWith(cmd *Command, opts *FormatterOptions, paramOpts ParamOptions) error {
	eff := effectiveOptions(cmd.name, opts, &w.cfg)

	var b strings.Builder
	if eff.NewlineBefore && !w.atLineStart {
		b.WriteByte('\n')
	}
	writeIndent(&b, w.indent, &eff)

	switch cmd.name {
	case NameText:
		w.renderText(&b, cmd)
	case NameAnnotation:
		w.renderAnnotation(&b, cmd)
	default:
		w.renderCommand(&b, cmd, &eff, paramOpts)
	}

	if eff.NewlineAfter {
		b.WriteByte('\n')
		w.atLineStart = true
	} else {
		w.atLineStart = false
	}
	return writeAll(w.sink, []byte(b.String()))
}

func (w *Writer) renderText(b *strings.Builder, cmd *Command) {
	if len(cmd.params) > 0 && cmd.params[0].kind == KindString {
		b.WriteString(cmd.params[0].str)
	}
}

func (w *Writer) renderAnnotation(b *strings.Builder, cmd *Command) {
	if len(cmd.params) == 0 || cmd.params[0].kind != KindString {
		return
	}
	text := cmd.params[0].str
	hashes := strings.Repeat("#", w.cfg.CommandThreshold+1)
	if strings.HasPrefix(strings.TrimLeft(text, " \t"), hashes) {
		b.WriteString(text)
	} else {
		b.WriteString(hashes)
		b.WriteByte(' ')
		b.WriteString(text)
	}
}

// renderCommand handles regular and @number commands. Parameter indices
// for per-parameter options count the full parameter list; for @number
// commands position 0 is the number itself.
func (w *Writer) renderCommand(b *strings.Builder, cmd *Command, eff *FormatterOptions, paramOpts ParamOptions) {
	b.WriteString(strings.Repeat("#", w.cfg.CommandThreshold))

	start := 0
	if cmd.name == NameNumber {
		if len(cmd.params) == 0 || cmd.params[0].kind != KindInt {
			return
		}
		numOpts := paramSpecificOptions(0, "", *eff, paramOpts)
		b.WriteString(formatInt(cmd.params[0].num, cmd.params[0].radix, numOpts.NumberFormat))
		start = 1
	} else {
		b.WriteString(cmd.name)
	}

	for i := start; i < len(cmd.params); i++ {
		param := cmd.params[i]
		cur := paramSpecificOptions(i, param.Name(), *eff, paramOpts)

		breakLine := cur.NewlineBeforeParam
		if i > start {
			prev := paramSpecificOptions(i-1, cmd.params[i-1].Name(), *eff, paramOpts)
			breakLine = breakLine || prev.NewlineAfterParam
		}
		if breakLine {
			b.WriteByte('\n')
			level := w.indent
			if !eff.Compact {
				level++
			}
			writeIndent(b, level, eff)
		} else {
			b.WriteByte(' ')
		}

		formatValue(b, param, &cur)
	}
}

// IncIndent raises the indent level by one step.
func (w *Writer) IncIndent() { w.indent++ }

// DecIndent lowers the indent level, not below zero.
func (w *Writer) DecIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Indent returns the current indent level.
func (w *Writer) Indent() int { return w.indent }

// Newline emits a bare newline.
func (w *Writer) Newline() error {
	if err := writeAll(w.sink, []byte{'\n'}); err != nil {
		return err
	}
	w.atLineStart = true
	return nil
}

// Flush flushes the underlying sink.
func (w *Writer) Flush() error { return w.sink.Flush() }

func writeIndent(b *strings.Builder, level int, opts *FormatterOptions) {
	if opts.Compact || level <= 0 {
		return
	}
	if opts.UseTabs {
		b.WriteString(strings.Repeat("\t", level))
	} else {
		b.WriteString(strings.Repeat(" ", level*opts.Indent))
	}
}

/* ---------- value formatting ---------- */

func formatValue(b *strings.Builder, v *Value, opts *FormatterOptions) {
	switch v.kind {
	case KindInt:
		b.WriteString(formatInt(v.num, v.radix, opts.NumberFormat))
	case KindFloat:
		b.WriteString(formatFloat(v.fnum))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.boolv))
	case KindString:
		formatString(b, v.str, opts)
	case KindLiteral:
		b.WriteString(v.str)
	case KindSingle:
		b.WriteString(v.str)
		b.WriteByte('(')
		formatValue(b, v.items[0], opts)
		b.WriteByte(')')
	case KindList:
		b.WriteString(v.str)
		b.WriteByte('(')
		for i, it := range v.items {
			if i > 0 {
				b.WriteByte(',')
				if !opts.Compact {
					b.WriteByte(' ')
				}
			}
			formatValue(b, it, opts)
		}
		b.WriteByte(')')
	case KindDict:
		b.WriteString(v.str)
		b.WriteByte('(')
		for i, k := range v.keys {
			if i > 0 {
				b.WriteByte(',')
				if !opts.Compact {
					b.WriteByte(' ')
				}
			}
			b.WriteString(k)
			b.WriteByte(':')
			if !opts.Compact {
				b.WriteByte(' ')
			}
			formatValue(b, v.items[i], opts)
		}
		b.WriteByte(')')
	}
}

// formatInt writes n in the requested format; NumUnknown falls back to
// the radix recorded on the value, and an unknown radix to decimal.
// Negative values keep their sign in every radix so the result reparses.
func formatInt(n int64, recorded Radix, nf NumberFormat) string {
	if nf == NumUnknown {
		switch recorded {
		case RadixHex:
			nf = NumHex
		case RadixOctal:
			nf = NumOctal
		case RadixBinary:
			nf = NumBinary
		default:
			nf = NumDecimal
		}
	}
	if nf == NumDecimal {
		return strconv.FormatInt(n, 10)
	}
	var prefix string
	var base int
	switch nf {
	case NumHex:
		prefix, base = "0x", 16
	case NumOctal:
		prefix, base = "0o", 8
	default:
		prefix, base = "0b", 2
	}
	mag := uint64(n)
	sign := ""
	if n < 0 {
		mag = -mag
		sign = "-"
	}
	return sign + prefix + strconv.FormatUint(mag, base)
}

// formatFloat renders the shortest decimal that round-trips, guaranteeing
// a fractional part or exponent so the result reparses as a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// isValidVarName reports whether s is identifier-shaped and so may be
// written unquoted. Unquoted, such a string reparses as a Literal; bool
// keywords are checked separately by formatString.
func isValidVarName(s string) bool {
	if s == "" {
		return false
	}
	if !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isAlphaNum(s[i]) {
			return false
		}
	}
	return true
}

func formatString(b *strings.Builder, s string, opts *FormatterOptions) {
	_, isBool := boolWords[s]
	if !opts.ForceQuotes && !isBool && isValidVarName(s) {
		b.WriteString(s)
		return
	}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
