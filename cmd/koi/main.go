// Command koi is the KoiLang toolbelt: convert KoiLang to and from JSON,
// reformat files, or explore the parser interactively.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	koicore "github.com/Visecy/koicore"
)

const historyFile = ".koi_history"

func main() {
	app := &cli.App{
		Name:  "koi",
		Usage: "parse, convert, and format KoiLang files",
		Commands: []*cli.Command{
			{
				Name:  "tojson",
				Usage: "convert KoiLang to a JSON array of commands",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
					&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "indent the JSON"},
					&cli.StringFlag{Name: "encoding", Aliases: []string{"e"}, Usage: "input encoding (e.g. utf-16, gbk)"},
					&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Value: 1, Usage: "command threshold"},
				},
				Action: cmdToJSON,
			},
			{
				Name:  "fromjson",
				Usage: "convert a JSON array of commands back to KoiLang",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
					&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Value: 1, Usage: "command threshold"},
				},
				Action: cmdFromJSON,
			},
			{
				Name:  "fmt",
				Usage: "reparse a KoiLang file and print it reformatted",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
					&cli.BoolFlag{Name: "compact", Aliases: []string{"c"}, Usage: "compact composite separators"},
					&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Value: 1, Usage: "command threshold"},
				},
				Action: cmdFmt,
			},
			{
				Name:   "repl",
				Usage:  "interactively parse command lines",
				Action: cmdRepl,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openSource(c *cli.Context) (koicore.InputSource, error) {
	path := c.String("input")
	if path == "" {
		return koicore.NewReaderSource("<stdin>", os.Stdin), nil
	}
	if enc := c.String("encoding"); enc != "" {
		return koicore.NewEncodedFileSource(path, enc, koicore.StrategyReplace)
	}
	return koicore.NewFileSource(path)
}

func openOutput(c *cli.Context) (io.WriteCloser, error) {
	path := c.String("output")
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}

func parserConfig(c *cli.Context) koicore.ParserConfig {
	return koicore.DefaultParserConfig().WithCommandThreshold(c.Int("threshold"))
}

func collect(p *koicore.Parser) ([]*koicore.Command, error) {
	var cmds []*koicore.Command
	for {
		cmd := p.Next()
		if cmd == nil {
			if e := p.Err(); e != nil {
				return nil, fmt.Errorf("%s", e.Traceback())
			}
			return cmds, nil
		}
		cmds = append(cmds, cmd)
	}
}

func cmdToJSON(c *cli.Context) error {
	src, err := openSource(c)
	if err != nil {
		return err
	}
	p := koicore.NewParser(src, parserConfig(c))
	defer p.Close()

	cmds, err := collect(p)
	if err != nil {
		return err
	}
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	if cmds == nil {
		cmds = []*koicore.Command{}
	}
	if err := enc.Encode(cmds); err != nil {
		return err
	}
	if out != os.Stdout {
		return out.Close()
	}
	return nil
}

func cmdFromJSON(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if path := c.String("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	var cmds []*koicore.Command
	if err := json.NewDecoder(in).Decode(&cmds); err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}

	out, err := openOutput(c)
	if err != nil {
		return err
	}
	cfg := koicore.DefaultWriterConfig()
	cfg.CommandThreshold = c.Int("threshold")
	sink := koicore.NewBufferSink()
	w := koicore.NewWriter(sink, cfg)
	for _, cmd := range cmds {
		if err := w.WriteCommand(cmd); err != nil {
			return err
		}
	}
	if _, err := out.Write(sink.Bytes()); err != nil {
		return err
	}
	if out != os.Stdout {
		return out.Close()
	}
	return nil
}

func cmdFmt(c *cli.Context) error {
	src, err := openSource(c)
	if err != nil {
		return err
	}
	p := koicore.NewParser(src, parserConfig(c))
	defer p.Close()

	cmds, err := collect(p)
	if err != nil {
		return err
	}
	cfg := koicore.DefaultWriterConfig()
	cfg.CommandThreshold = c.Int("threshold")
	if c.Bool("compact") {
		cfg.GlobalOptions.Compact = true
	}
	sink := koicore.NewBufferSink()
	w := koicore.NewWriter(sink, cfg)
	for _, cmd := range cmds {
		if err := w.WriteCommand(cmd); err != nil {
			return err
		}
	}
	out, err := openOutput(c)
	if err != nil {
		return err
	}
	if _, err := out.Write(sink.Bytes()); err != nil {
		return err
	}
	if out != os.Stdout {
		return out.Close()
	}
	return nil
}

func cmdRepl(c *cli.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("KoiLang REPL. Enter lines; Ctrl+D exits.")
	cfg := koicore.DefaultParserConfig()
	wcfg := koicore.DefaultWriterConfig()
	for {
		text, err := line.Prompt("koi> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		line.AppendHistory(text)

		p := koicore.NewParser(koicore.NewNamedStringSource("<repl>", text), cfg)
		for {
			cmd := p.Next()
			if cmd == nil {
				if e := p.Err(); e != nil {
					fmt.Fprintln(os.Stderr, e.Traceback())
				}
				break
			}
			sink := koicore.NewBufferSink()
			w := koicore.NewWriter(sink, wcfg)
			w.WriteCommand(cmd)
			fmt.Printf("%-12s %s", cmd.Kind(), sink.Content())
		}
	}
}
