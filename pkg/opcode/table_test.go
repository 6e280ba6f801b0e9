package opcode

import (
	"fmt"
	"strings"
	"testing"
)

// testCell renders one table cell in the document's format.
func testCell(mnemonic, sizeCycles, flags string) string {
	return fmt.Sprintf("%s<br/>%s<br/>%s", mnemonic, sizeCycles, flags)
}

// testDocument builds a two-table opcode document. cells overrides
// individual opcodes; everything else is NOP.
func testDocument(cells map[uint16]string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, prefix := range []uint16{0x00, 0xCB} {
		b.WriteString("<table><tr><td>--</td>")
		for c := 0; c < 16; c++ {
			fmt.Fprintf(&b, "<td>%x</td>", c)
		}
		b.WriteString("</tr>")
		for r := 0; r < 16; r++ {
			fmt.Fprintf(&b, "<tr><td>%xx</td>", r)
			for c := 0; c < 16; c++ {
				op := prefix<<8 | uint16(r)<<4 | uint16(c)
				cell, ok := cells[op]
				if !ok {
					cell = testCell("NOP", "1&#160;&#160;4", "- - - -")
				}
				fmt.Fprintf(&b, "<td>%s</td>", cell)
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// TestParseDocument verifies the walker visits every cell of both
// tables in opcode order.
func TestParseDocument(t *testing.T) {
	doc := testDocument(map[uint16]string{
		0x20:   testCell("JR NZ,r8", "2&#160;&#160;12/8", "- - - -"),
		0x41:   testCell("LD B,C", "1&#160;&#160;4", "- - - -"),
		0xD3:   "&#160;",
		0xCB47: testCell("BIT 0,A", "2&#160;&#160;8", "Z 0 1 -"),
	})

	entries, err := ParseDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(entries) != 512 {
		t.Fatalf("got %d entries, want 512", len(entries))
	}
	for i, e := range entries {
		if want := expectedOp(i); e.Op != want {
			t.Fatalf("entry %d has op %#04x, want %#04x", i, e.Op, want)
		}
	}

	ld := entries[0x41]
	if ld.Mnemonic != "LD B,C" || ld.Size != 1 || ld.Cycles != 4 || ld.CyclesBranch != 0 {
		t.Errorf("LD B,C entry = %+v", ld)
	}
	bit := entries[256+0x47]
	if bit.Mnemonic != "BIT 0,A" || bit.Size != 2 || bit.Cycles != 8 || bit.Flags != "Z 0 1 -" {
		t.Errorf("BIT 0,A entry = %+v", bit)
	}
}

// TestParseDocumentBranchCycles verifies conditional timing keeps the
// smaller count as the base regardless of cell order.
func TestParseDocumentBranchCycles(t *testing.T) {
	doc := testDocument(map[uint16]string{
		0x20: testCell("JR NZ,r8", "2&#160;&#160;12/8", "- - - -"),
		0x28: testCell("JR Z,r8", "2&#160;&#160;8/12", "- - - -"),
	})
	entries, err := ParseDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	for _, op := range []uint16{0x20, 0x28} {
		e := entries[op]
		if e.Cycles != 8 || e.CyclesBranch != 12 {
			t.Errorf("op %#02x: cycles %d/%d, want 8/12", op, e.Cycles, e.CyclesBranch)
		}
	}
}

// TestParseDocumentInvalidCell verifies the non-breaking-space cells
// become the INVALID record: 1 byte, 1 machine cycle, no operands.
func TestParseDocumentInvalidCell(t *testing.T) {
	doc := testDocument(map[uint16]string{0xD3: "&#160;&#160;"})
	entries, err := ParseDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	e := entries[0xD3]
	if !e.Invalid || e.Size != 1 || e.Cycles != 4 || e.CyclesBranch != 0 {
		t.Errorf("invalid entry = %+v", e)
	}
}

// TestParseDocumentRejects verifies structural errors halt parsing.
func TestParseDocumentRejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"one table", "<html><table><tr><td>x</td></tr></table></html>"},
		{"malformed cycles", testDocument(map[uint16]string{
			0x10: testCell("NOP", "one&#160;&#160;4", "- - - -"),
		})},
		{"missing segments", testDocument(map[uint16]string{
			0x10: "NOP",
		})},
	}
	for _, c := range cases {
		if _, err := ParseDocument(strings.NewReader(c.doc)); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}
