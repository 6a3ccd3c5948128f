package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"propc/pkg/generator"
	"propc/pkg/propc"
	"propc/pkg/workspace"
)

const helpText = `:load <file.xml>   load a workspace
:gen               generate and print the C source
:check             list warning badges
:diag              list diagnostics of the last generation
:blocks [prefix]   list supported block types
:tables            dump the symbol tables of the last generation
:save <file.c>     write the last generated source
:find <type>       list the ids of blocks of a type
:show <id>         print a block (and the chain below it) as XML
:export <file.xml> write the workspace as Blockly XML
:set <opt> <val>   volatile on|off, diag on|off, strsize N
:help              show this help
:quit              exit
A line starting with <xml is read as an inline workspace up to </xml>.`

var commands = []string{":blocks", ":check", ":diag", ":export", ":find", ":gen", ":help", ":load", ":quit", ":save", ":set", ":show", ":tables"}

// session holds the state of one shell: the loaded workspace, generator
// options and the result of the last generation.
type session struct {
	out  io.Writer
	ws   *workspace.Workspace
	name string
	opts generator.Options
	res  *generator.Result
}

func newSession(out io.Writer) *session {
	return &session{out: out, opts: generator.DefaultOptions()}
}

// exec runs one command line and reports whether the shell should exit.
func (s *session) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help":
		fmt.Fprintln(s.out, helpText)
	case ":load":
		if len(args) != 1 {
			return false, errors.New("usage: :load <file.xml>")
		}
		ws, err := workspace.LoadFile(args[0])
		if err != nil {
			return false, err
		}
		s.setWorkspace(ws, args[0])
	case ":gen":
		if err := s.generate(); err != nil {
			return false, err
		}
		fmt.Fprint(s.out, s.res.Source)
		if !strings.HasSuffix(s.res.Source, "\n") {
			fmt.Fprintln(s.out)
		}
	case ":check":
		if s.ws == nil {
			return false, errNoWorkspace
		}
		diags := propc.Check(s.ws)
		if len(diags) == 0 {
			fmt.Fprintln(s.out, "no warnings")
		}
		for _, d := range diags {
			fmt.Fprintln(s.out, d.Error())
		}
	case ":diag":
		if s.res == nil {
			return false, errNotGenerated
		}
		if len(s.res.Diagnostics) == 0 {
			fmt.Fprintln(s.out, "no diagnostics")
		}
		for _, d := range s.res.Diagnostics {
			fmt.Fprintln(s.out, d.Error())
		}
	case ":blocks":
		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		for _, typ := range propc.Registry().Types() {
			if strings.HasPrefix(typ, prefix) {
				fmt.Fprintln(s.out, typ)
			}
		}
	case ":tables":
		if s.res == nil {
			return false, errNotGenerated
		}
		fmt.Fprint(s.out, s.res.Tables.String())
	case ":save":
		if s.res == nil {
			return false, errNotGenerated
		}
		if len(args) != 1 {
			return false, errors.New("usage: :save <file.c>")
		}
		if err := propc.WriteSource(args[0], s.res); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "wrote %d bytes to %s\n", len(s.res.Source), args[0])
	case ":find":
		if s.ws == nil {
			return false, errNoWorkspace
		}
		if len(args) != 1 {
			return false, errors.New("usage: :find <type>")
		}
		found := s.ws.BlocksOfType(args[0])
		for _, b := range found {
			id := b.ID
			if id == "" {
				id = "(no id)"
			}
			if b.Disabled {
				id += " disabled"
			}
			fmt.Fprintln(s.out, id)
		}
		fmt.Fprintf(s.out, "%d %s blocks\n", len(found), args[0])
	case ":show":
		if s.ws == nil {
			return false, errNoWorkspace
		}
		if len(args) != 1 {
			return false, errors.New("usage: :show <id>")
		}
		b := s.ws.FindByID(args[0])
		if b == nil {
			return false, fmt.Errorf("no block with id %q", args[0])
		}
		out, err := workspace.MarshalXML(workspace.New(b))
		if err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, out)
	case ":export":
		if s.ws == nil {
			return false, errNoWorkspace
		}
		if len(args) != 1 {
			return false, errors.New("usage: :export <file.xml>")
		}
		if err := s.export(args[0]); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "wrote %s\n", args[0])
	case ":set":
		if len(args) != 2 {
			return false, errors.New("usage: :set <volatile|diag|strsize> <value>")
		}
		if err := s.set(args[0], args[1]); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %q, type :help", cmd)
	}
	return false, nil
}

func (s *session) setWorkspace(ws *workspace.Workspace, name string) {
	s.ws, s.name, s.res = ws, name, nil
	fmt.Fprintf(s.out, "loaded %s: %d blocks\n", name, len(ws.AllBlocks()))
}

// loadInline parses a workspace typed or pasted into the shell.
func (s *session) loadInline(src string) error {
	ws, err := workspace.ParseXML([]byte(src))
	if err != nil {
		return err
	}
	s.setWorkspace(ws, "<inline>")
	return nil
}

func (s *session) export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := workspace.WriteXML(f, s.ws); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *session) generate() error {
	if s.ws == nil {
		return errNoWorkspace
	}
	s.res = propc.GenerateWith(s.ws, s.opts)
	return nil
}

func (s *session) set(name, value string) error {
	switch name {
	case "volatile":
		on, err := parseSwitch(value)
		if err != nil {
			return err
		}
		s.opts.VolatileCogVars = on
	case "diag":
		on, err := parseSwitch(value)
		if err != nil {
			return err
		}
		s.opts.EmbedDiagnostics = on
	case "strsize":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("strsize must be a positive number, got %q", value)
		}
		s.opts.DefaultStringSize = n
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", v)
}

// complete offers command names, then block types after :blocks.
func complete(line string) []string {
	if rest, ok := strings.CutPrefix(line, ":blocks "); ok {
		var out []string
		for _, typ := range propc.Registry().Types() {
			if strings.HasPrefix(typ, rest) {
				out = append(out, ":blocks "+typ)
			}
		}
		return out
	}
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

var (
	errNoWorkspace  = errors.New("no workspace loaded, use :load <file.xml>")
	errNotGenerated = errors.New("nothing generated yet, use :gen")
)
