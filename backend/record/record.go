// Package record implements the structured-record backend: a portable
// declaration (.h) + implementation (.c) artifact pair rendered from the
// shared table.Row schema.
package record

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ebnfcomp/ebnfcomp/assign"
	"github.com/ebnfcomp/ebnfcomp/table"
)

//go:embed declaration.tmpl
var declarationSrc string

//go:embed implementation.tmpl
var implementationSrc string

// Artifacts holds the two rendered files; the driver decides their names
// and writes them.
type Artifacts struct {
	Declaration    string
	Implementation string
}

// Generate renders both artifacts for stem from an assign.Result.
func Generate(stem string, res *assign.Result) (*Artifacts, error) {
	headerFile := stem + ".h"
	data := map[string]any{
		"Stem":       stem,
		"HeaderFile": headerFile,
		"Guard":      guardSymbol(stem, headerFile),
		"Enums":      res.Enums,
		"Rows":       table.BuildRows(res.Nodes),
		"Branches":   res.Branches,
	}

	decl, err := render("declaration", declarationSrc, data)
	if err != nil {
		return nil, fmt.Errorf("record: rendering declaration: %w", err)
	}
	impl, err := render("implementation", implementationSrc, data)
	if err != nil {
		return nil, fmt.Errorf("record: rendering implementation: %w", err)
	}
	return &Artifacts{Declaration: decl, Implementation: impl}, nil
}

// guardSymbol derives the header-guard macro from stem and headerFile,
// uppercasing letters and replacing '.', '/', '\\', ':' with '_'.
// Including the stem, not just the header filename, avoids a collision:
// two stems whose header filenames collide after substitution would
// otherwise guard against each other.
func guardSymbol(stem, headerFile string) string {
	repl := strings.NewReplacer(".", "_", "/", "_", `\`, "_", ":", "_")
	return strings.ToUpper(repl.Replace(stem)) + "_" + strings.ToUpper(repl.Replace(headerFile)) + "_H"
}

func render(name, src string, data any) (string, error) {
	t, err := template.New(name).Funcs(funcMap).Parse(src)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
