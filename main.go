package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"propc/pkg/generator"
	"propc/pkg/propc"
	"propc/pkg/workspace"
)

func main() {
	inPath := flag.String("in", "", "input Blockly workspace XML file (- for stdin)")
	outPath := flag.String("out", "", "output C file path (default: stdout, or input with .c extension when -write is set)")
	write := flag.Bool("write", false, "write the source next to the input file instead of stdout")
	check := flag.Bool("check", false, "only run the block checks and print warnings")
	volatile := flag.Bool("volatile", false, "mark globals shared with cog functions volatile (experimental)")
	noDiag := flag.Bool("no-diag-comments", false, "do not put ERROR/WARNING comments in the generated source")
	keep := flag.String("keep-pointers", "", "comma-separated char* variables that must stay pointers")
	stringSize := flag.Int("string-size", generator.DefaultStringSize, "buffer size of string variables")
	strict := flag.Bool("strict", false, "exit with status 1 when generation reports an error")
	listBlocks := flag.Bool("list-blocks", false, "list the supported block types and exit")
	tables := flag.Bool("tables", false, "dump the symbol tables to stderr after generation")
	verbose := flag.Bool("v", false, "trace the generation pass to stderr")
	flag.Parse()

	if *listBlocks {
		for _, typ := range propc.Registry().Types() {
			kind := "statement"
			if propc.Registry().IsValue(typ) {
				kind = "value"
			}
			fmt.Printf("%-28s %s\n", typ, kind)
		}
		return
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in <workspace.xml> or -list-blocks")
		flag.Usage()
		os.Exit(2)
	}

	ws, err := loadWorkspace(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read workspace %q: %v\n", *inPath, err)
		os.Exit(1)
	}

	if *check {
		diags := propc.Check(ws)
		for _, d := range diags {
			fmt.Println(describe(d))
		}
		if len(diags) > 0 && *strict {
			os.Exit(1)
		}
		return
	}

	opts := generator.DefaultOptions()
	opts.VolatileCogVars = *volatile
	opts.EmbedDiagnostics = !*noDiag
	opts.DefaultStringSize = *stringSize
	if *keep != "" {
		for _, name := range strings.Split(*keep, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.KeepPointers = append(opts.KeepPointers, name)
			}
		}
	}
	if *verbose {
		opts.Log = log.New(os.Stderr, "propc: ", 0)
	}

	res := propc.GenerateWith(ws, opts)
	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, describe(d))
	}
	if *tables {
		fmt.Fprint(os.Stderr, res.Tables.String())
	}

	output := *outPath
	if output == "" && *write {
		if *inPath == "-" {
			fmt.Fprintln(os.Stderr, "-write needs a file given with -in")
			os.Exit(2)
		}
		output = defaultOutputPath(*inPath)
	}
	if output == "" {
		fmt.Print(res.Source)
	} else {
		if err := propc.WriteSource(output, res); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "generated %d bytes -> %s\n", len(res.Source), output)
	}

	if *strict && res.HasErrors() {
		os.Exit(1)
	}
}

func loadWorkspace(path string) (*workspace.Workspace, error) {
	if path == "-" {
		return workspace.ReadXML(os.Stdin)
	}
	return workspace.LoadFile(path)
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".c"
	}
	return strings.TrimSuffix(inPath, ext) + ".c"
}

// describe formats a diagnostic for the terminal.
func describe(d generator.Diagnostic) string {
	where := d.BlockType
	if d.BlockID != "" {
		where += "#" + d.BlockID
	}
	if where == "" {
		return d.Severity.String() + ": " + d.Message
	}
	return where + ": " + d.Severity.String() + ": " + d.Message
}
