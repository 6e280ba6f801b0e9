package opcode

import (
	"strings"
	"testing"
)

// testEntries builds a full 512-entry table, defaulting to NOP, with
// overrides keyed by opcode.
func testEntries(overrides map[uint16]Entry) []Entry {
	entries := make([]Entry, 512)
	for i := range entries {
		op := expectedOp(i)
		if e, ok := overrides[op]; ok {
			e.Op = op
			entries[i] = e
			continue
		}
		entries[i] = Entry{Op: op, Mnemonic: "NOP", Size: 1, Cycles: 4, Flags: "- - - -"}
	}
	return entries
}

// TestDecode verifies every opcode resolves to exactly one variant and
// that shapes deduplicate across opcodes.
func TestDecode(t *testing.T) {
	set, err := Decode(testEntries(map[uint16]Entry{
		0x20:   {Mnemonic: "JR NZ,r8", Size: 2, Cycles: 8, CyclesBranch: 12, Flags: "- - - -"},
		0x41:   {Mnemonic: "LD B,C", Size: 1, Cycles: 4, Flags: "- - - -"},
		0x42:   {Mnemonic: "LD B,D", Size: 1, Cycles: 4, Flags: "- - - -"},
		0xCB:   {Mnemonic: "PREFIX CB", Size: 1, Cycles: 4, Flags: "- - - -"},
		0xD3:   {Mnemonic: "INVALID", Size: 1, Cycles: 4, Invalid: true},
		0xCB47: {Mnemonic: "BIT 0,A", Size: 2, Cycles: 8, Flags: "Z 0 1 -"},
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(set.Entries) != 512 {
		t.Fatalf("got %d decoded entries, want 512", len(set.Entries))
	}

	// NOP, JR_COND_r8, LD_r8_r8 (once for 0x41 and 0x42), PREFIX_CB,
	// INVALID, BIT_l8_r8
	if len(set.Variants) != 6 {
		names := make([]string, len(set.Variants))
		for i, v := range set.Variants {
			names[i] = v.Name
		}
		t.Fatalf("got %d variants (%s), want 6", len(set.Variants), strings.Join(names, ", "))
	}

	ld := set.Entries[0x41]
	if ld.Variant != "LD_r8_r8" || ld.Head != "LD" {
		t.Errorf("0x41 decoded to %q head %q", ld.Variant, ld.Head)
	}
	if set.Entries[0x42].Variant != ld.Variant {
		t.Errorf("0x41 and 0x42 should share a variant")
	}

	jr := set.Entries[0x20]
	if jr.Variant != "JR_COND_r8" {
		t.Errorf("0x20 decoded to %q", jr.Variant)
	}
	if len(jr.Args) != 2 || jr.Args[0].Expr != "CondNZ" || jr.Args[1].Expr != "int8(r.U8())" {
		t.Errorf("0x20 args = %+v", jr.Args)
	}

	if inv := set.Entries[0xD3]; inv.Variant != "INVALID" || len(inv.Args) != 0 {
		t.Errorf("0xD3 decoded to %+v", inv)
	}

	if p := set.Entries[0xCB]; p.Variant != "PREFIX_CB" || len(p.Args) != 0 {
		t.Errorf("0xCB decoded to %+v", p)
	}

	bit := set.Entries[256+0x47]
	if bit.Variant != "BIT_l8_r8" || bit.Args[0].Expr != "0" || bit.Args[1].Expr != "Reg8A" {
		t.Errorf("0xCB47 decoded to %q args %+v", bit.Variant, bit.Args)
	}
}

// TestDecodeVariantFields verifies the first occurrence of a shape
// fixes its field types and format.
func TestDecodeVariantFields(t *testing.T) {
	set, err := Decode(testEntries(map[uint16]Entry{
		0x01: {Mnemonic: "LD BC,d16", Size: 3, Cycles: 12, Flags: "- - - -"},
		0x2A: {Mnemonic: "LD A,(HL+)", Size: 1, Cycles: 8, Flags: "- - - -"},
	}))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	byName := make(map[string]Variant)
	for _, v := range set.Variants {
		byName[v.Name] = v
	}

	ld16, ok := byName["LD_r16_d16"]
	if !ok {
		t.Fatalf("missing variant LD_r16_d16")
	}
	if len(ld16.Fields) != 2 || ld16.Fields[0] != "Reg16" || ld16.Fields[1] != "uint16" {
		t.Errorf("LD_r16_d16 fields = %v", ld16.Fields)
	}
	if ld16.Format != "LD %v,%v" {
		t.Errorf("LD_r16_d16 format = %q", ld16.Format)
	}

	ldi, ok := byName["LD_r8_ir16"]
	if !ok {
		t.Fatalf("missing variant LD_r8_ir16")
	}
	if ldi.Format != "LD %v,(%v)" {
		t.Errorf("LD_r8_ir16 format = %q", ldi.Format)
	}
}

// TestDecodeRejects verifies gaps, duplicates and unknown tokens are
// hard failures, not skips.
func TestDecodeRejects(t *testing.T) {
	short := testEntries(nil)[:511]
	if _, err := Decode(short); err == nil {
		t.Errorf("expected error for 511 entries")
	}

	dup := testEntries(nil)
	dup[5].Op = 0x04
	if _, err := Decode(dup); err == nil {
		t.Errorf("expected error for out-of-order opcode")
	}

	bad := testEntries(map[uint16]Entry{
		0x77: {Mnemonic: "LD A,q9", Size: 1, Cycles: 4},
	})
	_, err := Decode(bad)
	if err == nil {
		t.Fatalf("expected error for unknown token")
	}
	if !strings.Contains(err.Error(), "q9") {
		t.Errorf("error %q does not name the offending token", err)
	}
}
