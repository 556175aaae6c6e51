// command.go — value and command model for KoiLang.
//
// A KoiLang file is a stream of commands. Each command has a name and an
// ordered parameter list; parameters are tagged values ranging from simple
// scalars (integers with a recorded radix, floats, booleans, strings, bare
// literals) to named composites (single, list, dict). Three special command
// names carry non-command lines through the same pipe:
//
//	@text        a plain text line      (params[0] is a String)
//	@annotation  an annotation line     (params[0] is a String)
//	@number      a numeric command name (params[0] is an Int)
//
// Values are immutable except through the owning command's mutation API.
// Equality is structural; Clone is deep.
package koicore

import (
	"fmt"
	"strings"
)

// Reserved command names. A regular command may not use them.
const (
	NameText       = "@text"
	NameAnnotation = "@annotation"
	NameNumber     = "@number"
)

// Radix records the integer base a value was written in, so the writer can
// reproduce the source form.
type Radix int

const (
	RadixDecimal Radix = iota
	RadixHex
	RadixOctal
	RadixBinary
	RadixUnknown
)

func (r Radix) String() string {
	switch r {
	case RadixDecimal:
		return "decimal"
	case RadixHex:
		return "hex"
	case RadixOctal:
		return "octal"
	case RadixBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindBool
	KindString
	KindLiteral
	KindSingle
	KindList
	KindDict
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindLiteral:
		return "literal"
	case KindSingle:
		return "single"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is the closed parameter variant. Scalars carry their payload
// directly; composites (Single, List, Dict) carry the outer parameter's
// name and nest further values.
type Value struct {
	kind  ValueKind
	num   int64
	radix Radix
	fnum  float64
	boolv bool
	str   string // String/Literal payload; composite name otherwise
	items []*Value
	keys  []string // Dict keys, insertion order
}

// NewInt returns a decimal integer value.
func NewInt(v int64) *Value { return &Value{kind: KindInt, num: v, radix: RadixDecimal} }

// NewIntRadix returns an integer value with an explicit source radix.
func NewIntRadix(v int64, r Radix) *Value { return &Value{kind: KindInt, num: v, radix: r} }

// NewFloat returns a float value.
func NewFloat(v float64) *Value { return &Value{kind: KindFloat, fnum: v} }

// NewBool returns a boolean value.
func NewBool(v bool) *Value { return &Value{kind: KindBool, boolv: v} }

// NewString returns a string value. Strings are written quoted when needed.
func NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewLiteral returns a bare literal value, written verbatim.
func NewLiteral(s string) *Value { return &Value{kind: KindLiteral, str: s} }

// NewSingle returns a named composite wrapping exactly one value.
func NewSingle(name string, v *Value) *Value {
	return &Value{kind: KindSingle, str: name, items: []*Value{v}}
}

// NewList returns a named composite holding an ordered sequence of values.
func NewList(name string, items ...*Value) *Value {
	return &Value{kind: KindList, str: name, items: items}
}

// NewDict returns a named composite holding an ordered key/value mapping.
// Entries are added with Set.
func NewDict(name string) *Value {
	return &Value{kind: KindDict, str: name}
}

// Kind returns the variant tag.
func (v *Value) Kind() ValueKind { return v.kind }

func (v *Value) mismatch(want ValueKind) *Error {
	return newError(ErrTypeMismatch, fmt.Sprintf("value is %s, not %s", v.kind, want))
}

// Int returns the integer payload, or a TypeMismatch error.
func (v *Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, v.mismatch(KindInt)
	}
	return v.num, nil
}

// Radix returns the recorded radix for an Int, RadixUnknown otherwise.
func (v *Value) Radix() Radix {
	if v.kind != KindInt {
		return RadixUnknown
	}
	return v.radix
}

// Float returns the float payload, or a TypeMismatch error.
func (v *Value) Float() (float64, error) {
	if v.kind != KindFloat {
		return 0, v.mismatch(KindFloat)
	}
	return v.fnum, nil
}

// Bool returns the boolean payload, or a TypeMismatch error.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.boolv, nil
}

// Str returns the string payload of a String or Literal.
func (v *Value) Str() (string, error) {
	if v.kind != KindString && v.kind != KindLiteral {
		return "", v.mismatch(KindString)
	}
	return v.str, nil
}

// Name returns the composite name; empty for scalars.
func (v *Value) Name() string {
	switch v.kind {
	case KindSingle, KindList, KindDict:
		return v.str
	}
	return ""
}

// Len returns the number of contained values for a composite, 0 for scalars.
func (v *Value) Len() int { return len(v.items) }

// Item returns the i-th contained value of a Single or List.
func (v *Value) Item(i int) (*Value, error) {
	if v.kind != KindSingle && v.kind != KindList && v.kind != KindDict {
		return nil, v.mismatch(KindList)
	}
	if i < 0 || i >= len(v.items) {
		return nil, newError(ErrIndexOutOfBounds, fmt.Sprintf("index %d out of range [0, %d)", i, len(v.items)))
	}
	return v.items[i], nil
}

// Key returns the i-th dict key in insertion order.
func (v *Value) Key(i int) (string, error) {
	if v.kind != KindDict {
		return "", v.mismatch(KindDict)
	}
	if i < 0 || i >= len(v.keys) {
		return "", newError(ErrIndexOutOfBounds, fmt.Sprintf("index %d out of range [0, %d)", i, len(v.keys)))
	}
	return v.keys[i], nil
}

// Get returns the value stored under key in a Dict.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	for i, k := range v.keys {
		if k == key {
			return v.items[i], true
		}
	}
	return nil, false
}

// Set inserts or replaces a dict entry. A replaced entry keeps its position.
func (v *Value) Set(key string, val *Value) error {
	if v.kind != KindDict {
		return v.mismatch(KindDict)
	}
	for i, k := range v.keys {
		if k == key {
			v.items[i] = val
			return nil
		}
	}
	v.keys = append(v.keys, key)
	v.items = append(v.items, val)
	return nil
}

// Append adds a value to the end of a List.
func (v *Value) Append(val *Value) error {
	if v.kind != KindList {
		return v.mismatch(KindList)
	}
	v.items = append(v.items, val)
	return nil
}

// Inner returns the wrapped value of a Single.
func (v *Value) Inner() (*Value, error) {
	if v.kind != KindSingle {
		return nil, v.mismatch(KindSingle)
	}
	return v.items[0], nil
}

// Clone returns a deep copy.
func (v *Value) Clone() *Value {
	c := *v
	if v.items != nil {
		c.items = make([]*Value, len(v.items))
		for i, it := range v.items {
			c.items[i] = it.Clone()
		}
	}
	if v.keys != nil {
		c.keys = append([]string(nil), v.keys...)
	}
	return &c
}

// Equal reports structural equality. Radix is part of an Int's identity.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.num == o.num && v.radix == o.radix
	case KindFloat:
		return v.fnum == o.fnum
	case KindBool:
		return v.boolv == o.boolv
	case KindString, KindLiteral:
		return v.str == o.str
	}
	if v.str != o.str || len(v.items) != len(o.items) {
		return false
	}
	for i, k := range v.keys {
		if k != o.keys[i] {
			return false
		}
	}
	for i, it := range v.items {
		if !it.Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// String renders the value in default source form. Used for diagnostics;
// the writer is the authoritative serializer.
func (v *Value) String() string {
	var b strings.Builder
	formatValue(&b, v, &FormatterOptions{Indent: 4})
	return b.String()
}

// CommandKind classifies a command by its reserved-name prefix.
type CommandKind int

const (
	CmdRegular CommandKind = iota
	CmdText
	CmdAnnotation
	CmdNumber
)

func (k CommandKind) String() string {
	switch k {
	case CmdText:
		return "text"
	case CmdAnnotation:
		return "annotation"
	case CmdNumber:
		return "number"
	default:
		return "command"
	}
}

// Command is one logical line of KoiLang: a name and its parameters.
type Command struct {
	name   string
	params []*Value
}

func validateName(name string) *Error {
	if name == "" {
		return newError(ErrEmptyCommandName, "command name is empty")
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return newError(ErrReservedName, fmt.Sprintf("command name %q contains whitespace", name))
	}
	switch name {
	case NameText, NameAnnotation, NameNumber:
		return newError(ErrReservedName, fmt.Sprintf("%q is a reserved command name", name))
	}
	return nil
}

// NewCommand builds a regular command. The name must be non-empty, contain
// no whitespace, and not collide with a reserved @-name.
func NewCommand(name string, params ...*Value) (*Command, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Command{name: name, params: params}, nil
}

// NewText builds a text command holding one line of prose.
func NewText(content string) *Command {
	return &Command{name: NameText, params: []*Value{NewString(content)}}
}

// NewAnnotation builds an annotation command holding the annotation line.
func NewAnnotation(content string) *Command {
	return &Command{name: NameAnnotation, params: []*Value{NewString(content)}}
}

// NewNumber builds a number command. The integer becomes params[0]; extra
// parameters follow it.
func NewNumber(value int64, extra ...*Value) *Command {
	params := make([]*Value, 0, len(extra)+1)
	params = append(params, NewInt(value))
	params = append(params, extra...)
	return &Command{name: NameNumber, params: params}
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// SetName renames the command. Reserved names and names containing
// whitespace are rejected.
func (c *Command) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.name = name
	return nil
}

// Kind classifies the command by its name.
func (c *Command) Kind() CommandKind {
	switch c.name {
	case NameText:
		return CmdText
	case NameAnnotation:
		return CmdAnnotation
	case NameNumber:
		return CmdNumber
	}
	return CmdRegular
}

func (c *Command) IsText() bool       { return c.name == NameText }
func (c *Command) IsAnnotation() bool { return c.name == NameAnnotation }
func (c *Command) IsNumber() bool     { return c.name == NameNumber }

// Params returns the parameter slice. The slice is owned by the command;
// mutating the command invalidates previously returned slices.
func (c *Command) Params() []*Value { return c.params }

// ParamCount returns the number of parameters.
func (c *Command) ParamCount() int { return len(c.params) }

// Param returns the i-th parameter.
func (c *Command) Param(i int) (*Value, error) {
	if i < 0 || i >= len(c.params) {
		return nil, newError(ErrIndexOutOfBounds, fmt.Sprintf("parameter index %d out of range [0, %d)", i, len(c.params)))
	}
	return c.params[i], nil
}

// AddParam appends a parameter.
func (c *Command) AddParam(v *Value) { c.params = append(c.params, v) }

// InsertParam inserts a parameter at index i, shifting later parameters.
func (c *Command) InsertParam(i int, v *Value) error {
	if i < 0 || i > len(c.params) {
		return newError(ErrIndexOutOfBounds, fmt.Sprintf("insert index %d out of range [0, %d]", i, len(c.params)))
	}
	c.params = append(c.params, nil)
	copy(c.params[i+1:], c.params[i:])
	c.params[i] = v
	return nil
}

// RemoveParam removes the parameter at index i.
func (c *Command) RemoveParam(i int) error {
	if i < 0 || i >= len(c.params) {
		return newError(ErrIndexOutOfBounds, fmt.Sprintf("parameter index %d out of range [0, %d)", i, len(c.params)))
	}
	c.params = append(c.params[:i], c.params[i+1:]...)
	return nil
}

// ClearParams removes all parameters.
func (c *Command) ClearParams() { c.params = nil }

func (c *Command) setScalar(i int, want ValueKind, v *Value) error {
	if i < 0 || i >= len(c.params) {
		return newError(ErrIndexOutOfBounds, fmt.Sprintf("parameter index %d out of range [0, %d)", i, len(c.params)))
	}
	if c.params[i].kind != want {
		return c.params[i].mismatch(want)
	}
	c.params[i] = v
	return nil
}

// SetInt replaces parameter i, which must already be an Int. The recorded
// radix is kept.
func (c *Command) SetInt(i int, v int64) error {
	if i >= 0 && i < len(c.params) && c.params[i].kind == KindInt {
		return c.setScalar(i, KindInt, NewIntRadix(v, c.params[i].radix))
	}
	return c.setScalar(i, KindInt, NewInt(v))
}

// SetFloat replaces parameter i, which must already be a Float.
func (c *Command) SetFloat(i int, v float64) error { return c.setScalar(i, KindFloat, NewFloat(v)) }

// SetString replaces parameter i, which must already be a String.
func (c *Command) SetString(i int, v string) error { return c.setScalar(i, KindString, NewString(v)) }

// SetBool replaces parameter i, which must already be a Bool.
func (c *Command) SetBool(i int, v bool) error { return c.setScalar(i, KindBool, NewBool(v)) }

// Clone returns a deep copy of the command.
func (c *Command) Clone() *Command {
	params := make([]*Value, len(c.params))
	for i, p := range c.params {
		params[i] = p.Clone()
	}
	return &Command{name: c.name, params: params}
}

// Equal reports structural equality of name and parameters.
func (c *Command) Equal(o *Command) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.name != o.name || len(c.params) != len(o.params) {
		return false
	}
	for i, p := range c.params {
		if !p.Equal(o.params[i]) {
			return false
		}
	}
	return true
}

// String renders the command body (name and parameters, no # prefix).
func (c *Command) String() string {
	var b strings.Builder
	b.WriteString(c.name)
	for _, p := range c.params {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	return b.String()
}
