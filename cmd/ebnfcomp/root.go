package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebnfcomp/ebnfcomp/assign"
	"github.com/ebnfcomp/ebnfcomp/ast"
	"github.com/ebnfcomp/ebnfcomp/backend/asm"
	"github.com/ebnfcomp/ebnfcomp/backend/record"
	"github.com/ebnfcomp/ebnfcomp/canon"
	"github.com/ebnfcomp/ebnfcomp/errorx"
	"github.com/ebnfcomp/ebnfcomp/parser"
)

var flags = struct {
	tree *bool
	asmb *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "ebnfcomp <stem>",
	Short: "Compile an EBNF grammar on standard input into a table-driven parsing description",
	Args:  validateArgs,
	RunE:  run,

	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	flags.tree = rootCmd.Flags().BoolP("tree", "t", false, "dump the parsed syntax tree instead of compiling")
	flags.asmb = rootCmd.Flags().BoolP("asm", "a", false, "select the assembly backend")
}

// validateArgs requires exactly one stem, except in --tree mode, which
// writes no files and so accepts an optional, unused stem.
func validateArgs(cmd *cobra.Command, args []string) error {
	if *flags.tree {
		return cobra.MaximumNArgs(1)(cmd, args)
	}
	return cobra.ExactArgs(1)(cmd, args)
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		report(err)
		return err
	}
	return nil
}

// report prints a single fatal diagnostic to the error channel: a
// "?"-prefixed line, with ring-buffer context on its own line for
// lexical/syntactic errors.
func report(err error) {
	if diag, ok := err.(*errorx.Diag); ok {
		diag.Report(os.Stderr)
		return
	}
	fmt.Fprintf(os.Stderr, "? %v\n", err)
}

func run(cmd *cobra.Command, args []string) error {
	p, err := parser.New(os.Stdin)
	if err != nil {
		return err
	}
	root, err := p.Parse()
	if err != nil {
		return err
	}

	if *flags.tree {
		return dumpTree(os.Stdout, root)
	}

	canon.Canonicalize(root)
	res, err := assign.Assign(root)
	if err != nil {
		return err
	}

	stem := args[0]
	if *flags.asmb {
		return writeAsm(stem, res)
	}
	return writeRecord(stem, res)
}

func dumpTree(out io.Writer, root *ast.Node) error {
	w := bufio.NewWriter(out)
	var werr error
	ast.Dump(root, 0, func(line string) {
		if werr == nil {
			_, werr = fmt.Fprintln(w, line)
		}
	})
	if werr != nil {
		return werr
	}
	return w.Flush()
}

func writeRecord(stem string, res *assign.Result) error {
	art, err := record.Generate(stem, res)
	if err != nil {
		return err
	}
	if err := writeFile(stem+".h", art.Declaration); err != nil {
		return err
	}
	return writeFile(stem+".c", art.Implementation)
}

func writeAsm(stem string, res *assign.Result) error {
	art, err := asm.Generate(stem, res)
	if err != nil {
		return err
	}
	if err := writeFile(stem+".inc", art.Declaration); err != nil {
		return err
	}
	return writeFile(stem+".nasm", art.Implementation)
}

func writeFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}
