package canon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ebnfcomp/ebnfcomp/ast"
	"github.com/ebnfcomp/ebnfcomp/parser"
)

func parseOK(t *testing.T, src string) *ast.Node {
	t.Helper()
	p, err := parser.New(strings.NewReader(src))
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)
	return root
}

// Equal text implies identical node.
func TestCanonicalize_DeduplicatesRepeatedLiteral(t *testing.T) {
	root := parseOK(t, "x := 'a' 'a' .")
	Canonicalize(root)

	and := root.Children[0].Children[0]
	require.Equal(t, "AND_EXPR", and.Kind.String())
	require.Same(t, and.Children[0], and.Children[1])
	require.Equal(t, 2, and.Children[0].RefCount)
}

func TestCanonicalize_DistinctTextNotMerged(t *testing.T) {
	root := parseOK(t, "x := 'a' 'b' .")
	Canonicalize(root)

	and := root.Children[0].Children[0]
	require.NotSame(t, and.Children[0], and.Children[1])
}

func TestCanonicalize_SameTextDifferentKindNotMerged(t *testing.T) {
	root := parseOK(t, "x := 'a' /a/ .")
	Canonicalize(root)

	and := root.Children[0].Children[0]
	require.NotSame(t, and.Children[0], and.Children[1])
	require.Equal(t, "STR_LITERAL", and.Children[0].Kind.String())
	require.Equal(t, "REG_EX", and.Children[1].Kind.String())
}

func TestCanonicalize_AcrossProductions(t *testing.T) {
	root := parseOK(t, "a := 'x' .\nb := 'x' .")
	Canonicalize(root)

	litA := root.Children[0].Children[0]
	litB := root.Children[1].Children[0]
	require.Same(t, litA, litB)
	require.Equal(t, 2, litA.RefCount)
}

func TestCanonicalize_SingleOccurrenceRefcountUnchanged(t *testing.T) {
	root := parseOK(t, "x := 'a' .")
	Canonicalize(root)

	lit := root.Children[0].Children[0]
	require.Equal(t, 1, lit.RefCount)
}

func TestCanonicalize_Idempotent(t *testing.T) {
	root := parseOK(t, "x := 'a' 'a' 'a' .")
	Canonicalize(root)
	and := root.Children[0].Children[0]
	rc := and.Children[0].RefCount

	Canonicalize(root)
	require.Equal(t, rc, and.Children[0].RefCount)
}
