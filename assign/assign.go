// Package assign implements the identity & layout assigner: two walks
// that give every exportable node a stable id and node-type enum name,
// then a stable symbolic export identifier and a slice of the flat
// branch array, resolving identifier children to production ids along
// the way.
package assign

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ebnfcomp/ebnfcomp/ast"
	"github.com/ebnfcomp/ebnfcomp/errorx"
	"github.com/ebnfcomp/ebnfcomp/table"
)

// operatorLabel is the canonical symbol-to-name table, used when a
// STR_LITERAL/REG_EX's text is not a plain identifier.
var operatorLabel = map[string]string{
	"<>": "NE", "!=": "CNE", "==": "DEQ",
	"=": "EQ", ">=": "GE", "<=": "LE",
	"<": "LT", ">": "GT", "&": "AND",
	"&&": "LOGAND", "|": "OR", "||": "LOGOR",
	";": "SEMIC", ",": "COMMA", ":": "COLON",
	"(": "LPAREN", ")": "RPAREN", "[": "LBRACK",
	"]": "RBRACK", "{": "LBRACE", "}": "RBRACE",
	"^": "XOR", "^^": "LOGXOR", "*": "STAR",
	"**": "DBLSTAR", "/": "SLASH", "+": "PLUS",
	"-": "MINUS", ":=": "ASSIGN", "::=": "ASSIGN2",
	"~=": "APPLY", "++": "PLUSPLUS", "--": "MINUSMINUS",
	"+=": "PLUSEQ", "-=": "MINUSEQ", "*=": "STAREQ",
	"/=": "SLASHEQ", "&=": "ANDEQ", "|=": "OREQ",
	"^=": "XOREQ", ".": "DOT", "!": "EXCLAM",
	"<<": "LSHIFT", ">>": "RSHIFT", "%": "MODULO",
	"%=": "MODULOEQ", "...": "ELLIPSIS", "..": "RANGE",
}

const genericNodeType = "_NT_GENERIC"

// Context is the explicit assignment context, threaded through both
// walks instead of ambient process-wide counters: the id counter, the
// branch-array cursor, and the set of already-emitted node-type enum
// names.
type Context struct {
	nextID       int
	branchCursor int
	seenNames    map[string]bool
	enumOrder    []string
	prodByName   map[string]int
}

func newContext() *Context {
	return &Context{
		seenNames:  map[string]bool{genericNodeType: true},
		enumOrder:  []string{genericNodeType},
		prodByName: map[string]int{},
	}
}

func (ctx *Context) register(name string) string {
	if !ctx.seenNames[name] {
		ctx.seenNames[name] = true
		ctx.enumOrder = append(ctx.enumOrder, name)
	}
	return name
}

// Result is what both backends render from: the exportable nodes in id
// order, the flat branch array, and the node-type enum in first-emission
// order (always starting with "_NT_GENERIC").
type Result struct {
	Nodes    []*ast.Node
	Branches []int
	Enums    []string
}

// Assign runs both walks over root and returns the completed Result, or an
// error if an identifier fails to resolve to a declared production.
func Assign(root *ast.Node) (*Result, error) {
	ctx := newContext()
	nodes := assignIdentity(root, ctx)
	branches, err := assignLayout(root, ctx)
	if err != nil {
		return nil, err
	}
	return &Result{Nodes: nodes, Branches: branches, Enums: ctx.enumOrder}, nil
}

// assignIdentity is walk 1: enum/id assignment, plus recording the first
// occurrence of every production name for walk 2's name resolution.
//
// The walk is post-order: every child gets an id before its parent does.
// A leaf STR_LITERAL therefore always gets a lower id than the PRODUCTION
// wrapping it, and every descendant of an OR_EXPR gets a lower id than
// the OR_EXPR itself.
func assignIdentity(root *ast.Node, ctx *Context) []*ast.Node {
	var nodes []*ast.Node
	postOrderWalk(root, func(n *ast.Node) {
		if n.Kind == ast.PRODUCTION {
			if _, seen := ctx.prodByName[n.Text]; !seen {
				ctx.prodByName[n.Text] = ctx.nextID
			}
		}
		if !n.Exportable() || n.ID != -1 {
			return
		}
		n.NodeTypeName = nodeTypeName(n, ctx)
		n.ID = ctx.nextID
		ctx.nextID++
		nodes = append(nodes, n)
	})
	return nodes
}

// postOrderWalk visits every child of n, left to right, before n itself.
func postOrderWalk(n *ast.Node, visit func(*ast.Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		postOrderWalk(c, visit)
	}
	visit(n)
}

func nodeTypeName(n *ast.Node, ctx *Context) string {
	switch n.Kind {
	case ast.PRODUCTION:
		return ctx.register("NT_" + upperSnake(n.Text))
	case ast.STR_LITERAL, ast.REG_EX:
		if isPlainIdent(n.Text) {
			return ctx.register("NT_TERMINAL_" + strings.ToUpper(n.Text))
		}
		if label, ok := operatorLabel[n.Text]; ok {
			return ctx.register("NT_TERMINAL_" + label)
		}
		// ctx.nextID is the id this very node is about to receive.
		return ctx.register("NT_TERMINAL_" + strconv.Itoa(ctx.nextID))
	default:
		return ctx.register(genericNodeType)
	}
}

func upperSnake(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func isPlainIdent(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !alnum {
			return false
		}
	}
	return true
}

// assignLayout is walk 2: symbolic export identifier and branch-range
// assignment, resolving every child reference into the flat branch array.
func assignLayout(root *ast.Node, ctx *Context) ([]int, error) {
	var branches []int
	var failure error

	postOrderWalk(root, func(n *ast.Node) {
		if failure != nil || n.ID < 0 || n.ExportIdent != "" {
			return
		}
		n.ExportIdent = exportIdent(n)
		if len(n.Children) == 0 {
			return
		}
		n.BranchesIx = ctx.branchCursor
		ctx.branchCursor += len(n.Children)
		for _, c := range n.Children {
			val, err := resolveChild(ctx, n, c)
			if err != nil {
				failure = err
				return
			}
			branches = append(branches, val)
		}
	})
	if failure != nil {
		return nil, failure
	}
	return branches, nil
}

func exportIdent(n *ast.Node) string {
	switch n.Kind {
	case ast.PRODUCTION:
		return "production_" + strings.ReplaceAll(n.Text, "-", "_")
	case ast.STR_LITERAL:
		return "string_terminal_" + strconv.Itoa(n.ID)
	case ast.REG_EX:
		return "regex_terminal_" + strconv.Itoa(n.ID)
	case ast.AND_EXPR:
		return "mandatory_expr_" + strconv.Itoa(n.ID)
	case ast.OR_EXPR:
		return "alternative_expr_" + strconv.Itoa(n.ID)
	case ast.BRACK_EXPR:
		return "optional_expr_" + strconv.Itoa(n.ID)
	case ast.BRACE_EXPR:
		return "optional_repetitive_expr_" + strconv.Itoa(n.ID)
	default:
		// BIN_DATA, BIN_FIELD, BIN_FIELD_COUNT, BIN_FIELD_TIMES: every
		// exportable node needs a forward-declarable symbol;
		// "binary_match_" follows the same id-suffixed shape as the other
		// non-production prefixes.
		return "binary_match_" + strconv.Itoa(n.ID)
	}
}

// resolveChild returns the branch-array value for child, a direct child of
// parent: the child's own id, the production id an IDENTIFIER resolves to,
// or the -2 parameter-label sentinel in a binary context.
func resolveChild(ctx *Context, parent, child *ast.Node) (int, error) {
	if child.Kind != ast.IDENTIFIER {
		return child.ID, nil
	}
	switch parent.Kind {
	case ast.BIN_DATA, ast.BIN_FIELD, ast.BIN_FIELD_COUNT, ast.BIN_FIELD_TIMES:
		return table.RefParamLabel, nil
	}
	id, ok := ctx.prodByName[child.Text]
	if !ok {
		return 0, errorx.New(fmt.Errorf("production '%s' not found", child.Text), 0, 0)
	}
	return id, nil
}
