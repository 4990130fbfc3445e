package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ebnfcomp/ebnfcomp/errorx"
	"github.com/ebnfcomp/ebnfcomp/parser"
)

func withTreeFlag(t *testing.T, on bool) {
	t.Helper()
	orig := *flags.tree
	*flags.tree = on
	t.Cleanup(func() { *flags.tree = orig })
}

func TestValidateArgs_RequiresExactlyOneStemByDefault(t *testing.T) {
	withTreeFlag(t, false)
	require.NoError(t, validateArgs(rootCmd, []string{"a"}))
	require.Error(t, validateArgs(rootCmd, []string{}))
	require.Error(t, validateArgs(rootCmd, []string{"a", "b"}))
}

func TestValidateArgs_TreeAllowsZeroOrOneStem(t *testing.T) {
	withTreeFlag(t, true)
	require.NoError(t, validateArgs(rootCmd, []string{}))
	require.NoError(t, validateArgs(rootCmd, []string{"a"}))
	require.Error(t, validateArgs(rootCmd, []string{"a", "b"}))
}

func TestDumpTree_WritesIndentedForm(t *testing.T) {
	p, err := parser.New(strings.NewReader("x := 'a' ."))
	require.NoError(t, err)
	root, err := p.Parse()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, dumpTree(&buf, root))
	require.Contains(t, buf.String(), "PRODUCTION 'x'")
	require.Contains(t, buf.String(), "  STR_LITERAL 'a'")
}

func TestReport_DiagIncludesRingContext(t *testing.T) {
	diag := errorx.New(errors.New("boom"), 3, 7).WithRing("x := 'a")
	var buf bytes.Buffer
	diag.Report(&buf)
	require.Contains(t, buf.String(), "? boom in line 3 near position 7")
	require.Contains(t, buf.String(), "x := 'a")
}
