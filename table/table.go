// Package table declares the logical schema both backends (backend/record
// and backend/asm) render against: node classes, terminal types, and the
// binary-field encoding flags. Declaring this vocabulary once keeps the
// two backends from re-declaring the same constants with diverging names.
package table

// NodeClass is the coarse category of a node in the emitted parsing table.
type NodeClass int

const (
	ClassTerminal NodeClass = iota
	ClassProduction
	ClassMandatory
	ClassAlternative
	ClassOptional
	ClassOptionalRepetitive
)

func (c NodeClass) String() string {
	switch c {
	case ClassTerminal:
		return "TERMINAL"
	case ClassProduction:
		return "PRODUCTION"
	case ClassMandatory:
		return "MANDATORY"
	case ClassAlternative:
		return "ALTERNATIVE"
	case ClassOptional:
		return "OPTIONAL"
	case ClassOptionalRepetitive:
		return "OPTIONAL_REPETITIVE"
	default:
		return "?"
	}
}

// TermType sub-categorizes a ClassTerminal node.
type TermType int

const (
	TermUndef TermType = iota
	TermString
	TermRegex
	TermBinary
)

func (t TermType) String() string {
	switch t {
	case TermUndef:
		return "UNDEF"
	case TermString:
		return "STRING"
	case TermRegex:
		return "REGEX"
	case TermBinary:
		return "BINARY"
	default:
		return "?"
	}
}

// Binary-field encoding bit-flags.
const (
	BinFlagData  = 0x01
	BinFlagByte  = 0x02
	BinFlagWord  = 0x03
	BinFlagDWord = 0x04
	BinFlagQWord = 0x05
	BinFlagParam = 0x10
	BinFlagWrite = 0x20
)

// WidthFlag maps a BIN_FIELD* width name to its base encoding, or 0 for an
// unknown name. BIN_DATA rows use BinFlagData instead.
func WidthFlag(width string) byte {
	switch width {
	case "BYTE":
		return BinFlagByte
	case "WORD":
		return BinFlagWord
	case "DWORD":
		return BinFlagDWord
	case "QWORD":
		return BinFlagQWord
	default:
		return 0
	}
}

// ChildRef sentinels used in the flat branch array.
const (
	// RefParamLabel marks a binary-context identifier child: a parameter
	// name, not a production reference.
	RefParamLabel = -2
)

// Row is one fixed-layout record in the parsing table, one per exportable
// node, in id order.
type Row struct {
	ID          int
	Class       NodeClass
	NodeType    string // the node-type enum name, e.g. "NT_A" or "_NT_GENERIC"
	TermType    TermType
	Text        string // literal text for terminals; empty otherwise
	BinEncoding byte   // meaningful only when TermType == TermBinary
	ExportIdent string
	NumBranches int
	BranchesIx  int
}

// EnumEntry is one entry of the declared node-type enumeration, in
// first-emission order.
type EnumEntry struct {
	Name string
	// Value is the enumerator's integer value; _NT_GENERIC is always 0.
	Value int
}
