// Package asm implements the assembly backend: the same logical tables as
// backend/record, rendered as NASM source with separate rodata for
// terminal text and a fixed-layout record per node, using a 24-column
// label / column-25-directive layout for the canonical assembler.
package asm

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ebnfcomp/ebnfcomp/assign"
	"github.com/ebnfcomp/ebnfcomp/table"
)

//go:embed declaration.tmpl
var declarationSrc string

//go:embed implementation.tmpl
var implementationSrc string

// Artifacts holds the rendered .inc/.nasm pair.
type Artifacts struct {
	Declaration    string
	Implementation string
}

// asmRow is a table.Row flattened into the strings the template substitutes
// directly, precomputing formatted array literals rather than looping
// inside the template.
type asmRow struct {
	ID          int
	ExportIdent string
	NodeType    string
	ClassConst  string
	TermConst   string
	TextLabel   string // "" when the row carries no literal payload
	TextRef     string // the label name, or "0" when TextLabel is ""
	AsmBytes    string
	BinEncHex   string
	NumBranches int
	BranchesIx  int
}

// Generate renders both artifacts for stem from an assign.Result.
func Generate(stem string, res *assign.Result) (*Artifacts, error) {
	incFile := stem + ".inc"
	rows := table.BuildRows(res.Nodes)
	asmRows := make([]asmRow, len(rows))
	for i, r := range rows {
		asmRows[i] = buildAsmRow(r)
	}

	data := map[string]any{
		"Stem":     stem,
		"IncFile":  incFile,
		"Enums":    res.Enums,
		"Rows":     asmRows,
		"NumRows":  len(asmRows),
		"Branches": res.Branches,
	}

	decl, err := render("declaration", declarationSrc, data)
	if err != nil {
		return nil, fmt.Errorf("asm: rendering declaration: %w", err)
	}
	data["NumBranches"] = len(res.Branches)
	impl, err := render("implementation", implementationSrc, data)
	if err != nil {
		return nil, fmt.Errorf("asm: rendering implementation: %w", err)
	}
	return &Artifacts{Declaration: decl, Implementation: impl}, nil
}

func buildAsmRow(r table.Row) asmRow {
	row := asmRow{
		ID:          r.ID,
		ExportIdent: r.ExportIdent,
		NodeType:    r.NodeType,
		ClassConst:  "NODE_CLASS_" + r.Class.String(),
		TermConst:   "TERM_TYPE_" + r.TermType.String(),
		TextRef:     "0",
		BinEncHex:   fmt.Sprintf("0x%02x", r.BinEncoding),
		NumBranches: r.NumBranches,
		BranchesIx:  r.BranchesIx,
	}
	switch r.TermType {
	case table.TermString, table.TermRegex:
		row.TextLabel = fmt.Sprintf("prod_%d_text", r.ID)
		row.TextRef = row.TextLabel
		row.AsmBytes = asmBytes(append([]byte(r.Text), 0))
	case table.TermBinary:
		if r.BinEncoding == table.BinFlagData {
			raw := decodeHex(r.Text)
			blob := append([]byte{table.BinFlagData, byte(len(raw))}, raw...)
			row.TextLabel = fmt.Sprintf("prod_%d_text", r.ID)
			row.TextRef = row.TextLabel
			row.AsmBytes = asmBytes(blob)
		}
	}
	return row
}

func decodeHex(digits string) []byte {
	raw := make([]byte, len(digits)/2)
	for i := range raw {
		v, _ := strconv.ParseUint(digits[2*i:2*i+2], 16, 8)
		raw[i] = byte(v)
	}
	return raw
}

func asmBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("0x%02x", c)
	}
	return strings.Join(parts, ", ")
}

// pad left-aligns a label in a 24-column field so the directive starts at
// column 25.
func pad(label string) string {
	if len(label) >= 23 {
		return label + " "
	}
	return label + strings.Repeat(" ", 24-len(label))
}

var funcMap = template.FuncMap{"pad": pad}

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
