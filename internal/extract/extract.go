// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
)

// MetadataName is the identifier contrib files assign their declared
// metadata literal to.
const MetadataName = "libraryMetadata"

// requirementsKey is the metadata mapping key holding the dependency
// specifier list.
const requirementsKey = "requirements"

// RequirementsInfo is the result of extracting one contrib source file.
// It is immutable once returned.
type RequirementsInfo struct {
	// Classes are the names of top-level struct type declarations, in
	// declaration order.
	Classes []string
	// Requirements are the declared dependency specifiers (e.g.
	// "numpy>=1.20"), in declaration order across all metadata literals
	// in the file.
	Requirements []string
}

// IsEmpty reports whether the file declared no expectation types and no
// requirements.
func (ri *RequirementsInfo) IsEmpty() bool {
	return len(ri.Classes) == 0 && len(ri.Requirements) == 0
}

// File parses the source file at path and extracts its declared expectation
// type names and requirement specifiers.
//
// A file with no top-level struct declarations yields an empty
// RequirementsInfo, not an error; metadata assignments in such a file are
// ignored. A libraryMetadata value that is not a literal mapping, or whose
// requirements entry is not a sequence of strings, is an error.
func File(path string) (*RequirementsInfo, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contrib file: %w", err)
	}
	return Source(path, src)
}

// Source is like File but takes the file content directly. The filename is
// used only for error positions.
func Source(filename string, src []byte) (*RequirementsInfo, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse contrib file: %w", err)
	}

	info := &RequirementsInfo{}
	for _, decl := range f.Decls {
		info.Classes = append(info.Classes, structNames(decl)...)
	}

	// Metadata only counts when the file declares at least one expectation
	// type; a bare metadata literal in a helper file is ignored.
	if len(info.Classes) == 0 {
		return info, nil
	}

	for _, decl := range f.Decls {
		reqs, err := metadataRequirements(fset, decl)
		if err != nil {
			return nil, err
		}
		info.Requirements = append(info.Requirements, reqs...)
	}

	return info, nil
}

// structNames returns the names of struct types declared by a top-level
// declaration. Non-type and non-struct declarations yield nothing.
func structNames(decl ast.Decl) []string {
	gd, ok := decl.(*ast.GenDecl)
	if !ok || gd.Tok != token.TYPE {
		return nil
	}

	var names []string
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if _, isStruct := ts.Type.(*ast.StructType); isStruct {
			names = append(names, ts.Name.Name)
		}
	}
	return names
}

// metadataRequirements collects requirement specifiers from every
// libraryMetadata assignment reachable from a top-level declaration: var
// declarations at file scope and assignment statements inside function or
// method bodies.
func metadataRequirements(fset *token.FileSet, decl ast.Decl) ([]string, error) {
	var (
		reqs    []string
		walkErr error
	)

	collect := func(pos token.Pos, value ast.Expr) bool {
		found, err := requirementsFromLiteral(value)
		if err != nil {
			walkErr = fmt.Errorf("%s: %s: %w", fset.Position(pos), MetadataName, err)
			return false
		}
		reqs = append(reqs, found...)
		return true
	}

	switch d := decl.(type) {
	case *ast.GenDecl:
		if d.Tok != token.VAR {
			return nil, nil
		}
		for _, spec := range d.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			// Multi-name specs are skipped, mirroring the single-target
			// restriction on assignments below.
			if len(vs.Names) != 1 || len(vs.Values) != 1 {
				continue
			}
			if vs.Names[0].Name != MetadataName {
				continue
			}
			if !collect(vs.Names[0].Pos(), vs.Values[0]) {
				return nil, walkErr
			}
		}
	case *ast.FuncDecl:
		if d.Body == nil {
			return nil, nil
		}
		ast.Inspect(d.Body, func(n ast.Node) bool {
			assign, ok := n.(*ast.AssignStmt)
			if !ok {
				return true
			}
			// Destructuring targets are a known precision compromise:
			// only single simple-name targets are considered.
			if len(assign.Lhs) != 1 || len(assign.Rhs) != 1 {
				return true
			}
			ident, ok := assign.Lhs[0].(*ast.Ident)
			if !ok || ident.Name != MetadataName {
				return true
			}
			return collect(ident.Pos(), assign.Rhs[0])
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	return reqs, nil
}

// requirementsFromLiteral evaluates a metadata right-hand side and pulls out
// its requirements list. The value must be a literal mapping; the
// requirements entry, when present, must be a sequence of strings.
func requirementsFromLiteral(value ast.Expr) ([]string, error) {
	v, err := evalLiteral(value)
	if err != nil {
		return nil, err
	}

	meta, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("metadata literal is %T, want a mapping", v)
	}

	raw, present := meta[requirementsKey]
	if !present {
		return nil, nil
	}

	seq, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s entry is %T, want a sequence", requirementsKey, raw)
	}

	reqs := make([]string, 0, len(seq))
	for i, elem := range seq {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is %T, want a string", requirementsKey, i, elem)
		}
		reqs = append(reqs, s)
	}
	return reqs, nil
}
