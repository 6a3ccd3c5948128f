// Package propc generates PropC source from Blockly workspaces using the
// full block catalog.
//
// Pipeline: workspace XML → workspace.Block graph → generator (inference,
// emit, finish) → C translation unit
package propc

import (
	"fmt"
	"os"

	"propc/pkg/blocks"
	"propc/pkg/generator"
	"propc/pkg/workspace"
)

var registry = blocks.Default()

// Registry returns the registry holding every supported block type.
func Registry() *generator.Registry { return registry }

// Generate returns the C source for ws with default options.
func Generate(ws *workspace.Workspace) string {
	return GenerateWith(ws, generator.DefaultOptions()).Source
}

// GenerateWith runs one generation pass over ws.
func GenerateWith(ws *workspace.Workspace, opts generator.Options) *generator.Result {
	return generator.Generate(ws, registry, opts)
}

// Check returns the warning badges of ws without generating code.
func Check(ws *workspace.Workspace) []generator.Diagnostic {
	return generator.Check(ws, registry)
}

// GenerateFile loads a workspace XML file and generates it.
func GenerateFile(path string, opts generator.Options) (*generator.Result, error) {
	ws, err := workspace.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return GenerateWith(ws, opts), nil
}

// WriteSource writes generated source to path.
func WriteSource(path string, res *generator.Result) error {
	if err := os.WriteFile(path, []byte(res.Source), 0o644); err != nil {
		return fmt.Errorf("propc: write %s: %w", path, err)
	}
	return nil
}
