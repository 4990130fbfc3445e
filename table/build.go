package table

import "github.com/ebnfcomp/ebnfcomp/ast"

// BuildRows converts the assign pass's id-ordered node list into parsing
// table rows. Both backends render from this, rather than from *ast.Node
// directly, so neither has to know the tree representation.
func BuildRows(nodes []*ast.Node) []Row {
	rows := make([]Row, len(nodes))
	for i, n := range nodes {
		rows[i] = buildRow(n)
	}
	return rows
}

func buildRow(n *ast.Node) Row {
	row := Row{
		ID:          n.ID,
		NodeType:    n.NodeTypeName,
		ExportIdent: n.ExportIdent,
		NumBranches: len(n.Children),
		BranchesIx:  n.BranchesIx,
	}
	switch n.Kind {
	case ast.PRODUCTION:
		row.Class = ClassProduction
	case ast.AND_EXPR:
		row.Class = ClassMandatory
	case ast.OR_EXPR:
		row.Class = ClassAlternative
	case ast.BRACK_EXPR:
		row.Class = ClassOptional
	case ast.BRACE_EXPR:
		row.Class = ClassOptionalRepetitive
	case ast.STR_LITERAL:
		row.Class = ClassTerminal
		row.TermType = TermString
		row.Text = n.Text
	case ast.REG_EX:
		row.Class = ClassTerminal
		row.TermType = TermRegex
		row.Text = n.Text
	case ast.BIN_DATA:
		row.Class = ClassTerminal
		row.TermType = TermBinary
		row.Text = n.Text // hex digit string; the backend decodes the bytes
		row.BinEncoding = BinFlagData
	case ast.BIN_FIELD, ast.BIN_FIELD_COUNT, ast.BIN_FIELD_TIMES:
		row.Class = ClassTerminal
		row.TermType = TermBinary
		row.BinEncoding = binEncoding(n)
	}
	return row
}

// binEncoding computes the bit-flag byte for a BIN_FIELD/BIN_FIELD_COUNT/
// BIN_FIELD_TIMES node: base width, PARAM if it carries an identifier
// child, WRITE if it is a BIN_FIELD_COUNT (a field whose matched value is
// written back into the named variable rather than merely counted).
func binEncoding(n *ast.Node) byte {
	enc := WidthFlag(n.Text)
	if len(n.Children) > 0 {
		enc |= BinFlagParam
	}
	if n.Kind == ast.BIN_FIELD_COUNT {
		enc |= BinFlagWrite
	}
	return enc
}
