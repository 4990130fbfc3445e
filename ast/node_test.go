package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportable(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{EOS, false},
		{IDENTIFIER, false},
		{STR_LITERAL, true},
		{REG_EX, true},
		{BIN_DATA, true},
		{BIN_FIELD, true},
		{BIN_FIELD_COUNT, true},
		{BIN_FIELD_TIMES, true},
		{AND_EXPR, true},
		{OR_EXPR, true},
		{BRACK_EXPR, true},
		{BRACE_EXPR, true},
		{PRODUCTION, true},
		{PROD_LIST, false},
	}
	for _, c := range cases {
		n := New(c.kind, "")
		require.Equal(t, c.want, n.Exportable(), "kind %v", c.kind)
	}
}

func TestRelease_FreesOnlyAtZeroRefcount(t *testing.T) {
	shared := New(BRACK_EXPR, "")
	shared.AddChild(New(STR_LITERAL, "x"))
	shared.RefCount = 2 // strongly referenced by two parents

	parent := New(AND_EXPR, "")
	parent.AddChild(shared)

	Release(parent)

	require.Equal(t, 1, shared.RefCount)
	require.NotNil(t, shared.Children, "a still-referenced node must not be torn down")
}

func TestRelease_RecursesOnZero(t *testing.T) {
	leaf := New(STR_LITERAL, "x")
	mid := New(AND_EXPR, "")
	mid.AddChild(leaf)
	root := New(PRODUCTION, "p")
	root.AddChild(mid)

	Release(root)

	require.Equal(t, 0, leaf.RefCount)
	require.Nil(t, mid.Children)
}

func TestWalk_PreOrderChildrenInInsertionOrder(t *testing.T) {
	a := New(STR_LITERAL, "a")
	b := New(STR_LITERAL, "b")
	and := New(AND_EXPR, "")
	and.AddChild(a)
	and.AddChild(b)
	prod := New(PRODUCTION, "p")
	prod.AddChild(and)

	var order []Kind
	Walk(prod, func(n *Node) { order = append(order, n.Kind) })

	require.Equal(t, []Kind{PRODUCTION, AND_EXPR, STR_LITERAL, STR_LITERAL}, order)
}

func TestEqual_ComparesKindAndTextOnly(t *testing.T) {
	a := New(STR_LITERAL, "x")
	b := New(STR_LITERAL, "x")
	c := New(REG_EX, "x")
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
