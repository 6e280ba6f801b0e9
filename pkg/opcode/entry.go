package opcode

// Entry is one cell of the opcode tables: a single opcode's raw
// documentation before any normalization.
type Entry struct {
	Op           uint16 // 0x00-0xFF, or 0xCB00-0xCBFF for the prefixed table
	Mnemonic     string // raw mnemonic text, e.g. "LD (HL+),A"
	Size         int    // encoded length in bytes, including the CB prefix
	Cycles       int    // clock ticks; the smaller count for conditional ops
	CyclesBranch int    // clock ticks for the other branch outcome, 0 if none
	Flags        string // flag-effect column ("Z N H C" forms), carried but not rendered
	Invalid      bool   // officially undefined opcode
}

// Prefixed returns true for opcodes reached through the 0xCB prefix byte.
func (e Entry) Prefixed() bool {
	return e.Op>>8 == 0xCB
}

// Low returns the opcode byte within its table (the byte after the
// prefix for CB opcodes).
func (e Entry) Low() uint8 {
	return uint8(e.Op & 0xFF)
}
