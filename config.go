// config.go — parser and writer configuration.
package koicore

// ParserConfig controls how the line classifier interprets input.
type ParserConfig struct {
	// CommandThreshold is the number of leading # characters that makes a
	// line a command. Fewer is text, more is an annotation.
	CommandThreshold int
	// SkipAnnotations drops annotation lines instead of returning them.
	SkipAnnotations bool
	// ConvertNumberCommand turns commands whose name is a decimal integer
	// into @number commands.
	ConvertNumberCommand bool
	// PreserveIndent keeps leading whitespace in text and annotation lines.
	PreserveIndent bool
	// PreserveEmptyLines returns empty lines as empty @text commands
	// instead of skipping them.
	PreserveEmptyLines bool
}

// DefaultParserConfig returns the default configuration: threshold 1,
// annotations kept, number commands converted, whitespace trimmed,
// empty lines skipped.
func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		CommandThreshold:     1,
		ConvertNumberCommand: true,
	}
}

func (c ParserConfig) WithCommandThreshold(n int) ParserConfig {
	c.CommandThreshold = n
	return c
}

func (c ParserConfig) WithSkipAnnotations(skip bool) ParserConfig {
	c.SkipAnnotations = skip
	return c
}

func (c ParserConfig) WithConvertNumberCommand(convert bool) ParserConfig {
	c.ConvertNumberCommand = convert
	return c
}

func (c ParserConfig) WithPreserveIndent(preserve bool) ParserConfig {
	c.PreserveIndent = preserve
	return c
}

func (c ParserConfig) WithPreserveEmptyLines(preserve bool) ParserConfig {
	c.PreserveEmptyLines = preserve
	return c
}

// NumberFormat selects the radix the writer uses for integers. NumUnknown,
// the zero value, means "use the radix recorded on the value", which keeps
// parsed integers in their source form.
type NumberFormat int

const (
	NumUnknown NumberFormat = iota
	NumDecimal
	NumHex
	NumOctal
	NumBinary
)

// FormatterOptions is one layer of writer formatting. Layers merge with
// per-parameter options over per-command options over the global defaults;
// only fields set away from their zero value override the layer below,
// unless Override is set, in which case the options replace the lower
// layers wholesale.
type FormatterOptions struct {
	Indent             int  // spaces per indent step; 0 inherits (4 by default)
	UseTabs            bool // indent with tabs instead of spaces
	NewlineBefore      bool // emit a newline before the command if not at line start
	NewlineAfter       bool // emit a newline after the command
	Compact            bool // collapse separators and suppress indentation
	ForceQuotes        bool // quote strings even when they look like identifiers
	NumberFormat       NumberFormat
	NewlineBeforeParam bool // break the line before this parameter
	NewlineAfterParam  bool // break the line after this parameter
	Override           bool // replace, rather than merge over, the lower layer
}

// DefaultFormatterOptions returns the global defaults: four-space indent,
// a trailing newline per command, source-radix integers.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{Indent: 4, NewlineAfter: true}
}

// CommandOptions binds formatting options to an exact command name.
type CommandOptions struct {
	Name    string
	Options FormatterOptions
}

// ParamSelector picks a parameter for per-parameter options, either by
// 0-based position or, for composites, by name. Name selectors win over
// position selectors.
type ParamSelector struct {
	Position int
	Name     string // non-empty selects by name; Position is ignored
}

// ByPosition selects the parameter at a 0-based index.
func ByPosition(i int) ParamSelector { return ParamSelector{Position: i} }

// ByName selects a composite parameter by its name.
func ByName(name string) ParamSelector { return ParamSelector{Name: name} }

// ParamOptions maps selectors to formatting overrides for single parameters.
type ParamOptions map[ParamSelector]FormatterOptions

// WriterConfig configures a Writer.
type WriterConfig struct {
	// GlobalOptions is the base formatting layer.
	GlobalOptions FormatterOptions
	// CommandThreshold is the number of # characters emitted before a
	// command name.
	CommandThreshold int
	// CommandOptions overrides formatting for exact command names, in
	// declaration order.
	CommandOptions []CommandOptions
}

// DefaultWriterConfig returns the default writer configuration.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		GlobalOptions:    DefaultFormatterOptions(),
		CommandThreshold: 1,
	}
}

// commandOptions returns the options registered for name, if any.
func (c *WriterConfig) commandOptions(name string) (FormatterOptions, bool) {
	for _, co := range c.CommandOptions {
		if co.Name == name {
			return co.Options, true
		}
	}
	return FormatterOptions{}, false
}

// mergeOptions layers over on top of base. Fields of over that are at
// their zero value inherit from base; Override short-circuits the merge.
func mergeOptions(base, over FormatterOptions) FormatterOptions {
	if over.Override {
		return over
	}
	merged := base
	if over.Indent != 0 {
		merged.Indent = over.Indent
	}
	if over.UseTabs {
		merged.UseTabs = true
	}
	if over.NewlineBefore {
		merged.NewlineBefore = true
	}
	if over.NewlineAfter {
		merged.NewlineAfter = true
	}
	if over.Compact {
		merged.Compact = true
	}
	if over.ForceQuotes {
		merged.ForceQuotes = true
	}
	if over.NumberFormat != NumUnknown {
		merged.NumberFormat = over.NumberFormat
	}
	if over.NewlineBeforeParam {
		merged.NewlineBeforeParam = true
	}
	if over.NewlineAfterParam {
		merged.NewlineAfterParam = true
	}
	return merged
}

// effectiveOptions resolves the option layers for one command: global,
// then name-specific config, then the ad-hoc options of this write call.
func effectiveOptions(name string, opts *FormatterOptions, cfg *WriterConfig) FormatterOptions {
	result := cfg.GlobalOptions
	if co, ok := cfg.commandOptions(name); ok {
		result = mergeOptions(result, co)
	}
	if opts != nil {
		result = mergeOptions(result, *opts)
	}
	if result.Indent == 0 {
		result.Indent = 4
	}
	return result
}

// paramSpecificOptions resolves the options for one parameter, name
// selector first, then position, falling back to the command's options.
func paramSpecificOptions(position int, name string, base FormatterOptions, paramOpts ParamOptions) FormatterOptions {
	if paramOpts != nil {
		if name != "" {
			if o, ok := paramOpts[ParamSelector{Name: name}]; ok {
				return mergeOptions(base, o)
			}
		}
		if o, ok := paramOpts[ParamSelector{Position: position}]; ok {
			return mergeOptions(base, o)
		}
	}
	return base
}
