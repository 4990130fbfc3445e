package record

import (
	"fmt"
	"strconv"
	"text/template"

	"github.com/ebnfcomp/ebnfcomp/table"
)

var funcMap = template.FuncMap{
	"classConst": classConst,
	"termConst":  termConst,
	"ctext":      ctext,
	"hex2":       func(b byte) string { return fmt.Sprintf("0x%02x", b) },
}

func classConst(c table.NodeClass) string {
	return "NODE_CLASS_" + c.String()
}

func termConst(t table.TermType) string {
	return "TERM_TYPE_" + t.String()
}

// ctext renders a row's text field as a C expression: a quoted string for
// STRING/REGEX terminals, a length-prefixed byte blob for a BIN_DATA
// literal (the data flag, a length byte, then the raw bytes), or NULL for
// every other row (including BIN_FIELD* rows, which carry no literal
// payload beyond their encoding byte).
func ctext(r table.Row) string {
	switch r.TermType {
	case table.TermString, table.TermRegex:
		return `"` + cEscape([]byte(r.Text)) + `"`
	case table.TermBinary:
		if r.BinEncoding == table.BinFlagData {
			raw := decodeHex(r.Text)
			blob := append([]byte{table.BinFlagData, byte(len(raw))}, raw...)
			return `"` + cEscape(blob) + `"`
		}
	}
	return "NULL"
}

func decodeHex(digits string) []byte {
	raw := make([]byte, len(digits)/2)
	for i := range raw {
		v, _ := strconv.ParseUint(digits[2*i:2*i+2], 16, 8)
		raw[i] = byte(v)
	}
	return raw
}

func cEscape(b []byte) string {
	out := make([]byte, 0, len(b)+2)
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c >= 0x20 && c < 0x7f:
			out = append(out, c)
		default:
			out = append(out, []byte(fmt.Sprintf(`\x%02x`, c))...)
		}
	}
	return string(out)
}
