package opcode

import "fmt"

// Variant is one unique generic instruction shape. 512 opcodes
// collapse to well under a hundred of these.
type Variant struct {
	Name   string   // e.g. "LD_r8_ir16"
	Format string   // Sprintf format, e.g. "LD %v,(%v)"
	Fields []string // Go field types, e.g. ["Reg8", "Reg16"]
}

// Decoded is one opcode resolved to its variant and constructor
// arguments.
type Decoded struct {
	Entry
	Head    string // bare mnemonic head, e.g. "LD"
	Variant string // variant name, the deduplication key
	Args    []Operand
}

// Set is the full decoded opcode map: every entry in opcode order plus
// the unique variants in first-occurrence order.
type Set struct {
	Entries  []Decoded
	Variants []Variant
}

// expectedEntries is both opcode tables: 256 base + 256 CB-prefixed.
const expectedEntries = 512

// Decode resolves every parsed Entry to its generic variant. It fails
// on any unrecognized operand token and on any gap or duplicate in the
// opcode space: every one of the 512 opcodes must resolve to exactly
// one variant.
func Decode(entries []Entry) (*Set, error) {
	if len(entries) != expectedEntries {
		return nil, fmt.Errorf("expected %d opcode entries, decoded %d", expectedEntries, len(entries))
	}

	set := &Set{Entries: make([]Decoded, 0, len(entries))}
	seen := make(map[string]bool)
	for i, e := range entries {
		if want := expectedOp(i); e.Op != want {
			return nil, fmt.Errorf("opcode %#04x out of order: expected %#04x", e.Op, want)
		}

		d, v, err := decodeEntry(e)
		if err != nil {
			return nil, err
		}
		set.Entries = append(set.Entries, d)

		if !seen[v.Name] {
			seen[v.Name] = true
			set.Variants = append(set.Variants, v)
		}
	}
	return set, nil
}

// expectedOp maps a position in the entry list to its opcode value.
func expectedOp(i int) uint16 {
	if i < 256 {
		return uint16(i)
	}
	return cbPrefix<<8 | uint16(i-256)
}

func decodeEntry(e Entry) (Decoded, Variant, error) {
	if e.Invalid {
		return Decoded{Entry: e, Head: "INVALID", Variant: "INVALID"},
			Variant{Name: "INVALID", Format: "INVALID"}, nil
	}
	// The base table's 0xCB cell is the prefix marker, not an
	// instruction; the consumer dispatches it to the second table.
	if e.Mnemonic == "PREFIX CB" {
		return Decoded{Entry: e, Head: "PREFIX", Variant: "PREFIX_CB"},
			Variant{Name: "PREFIX_CB", Format: "PREFIX CB"}, nil
	}

	clean := Clean(e.Mnemonic)
	head, generic := tokens(Generalize(clean))
	args, err := classifyAll(e.Op, clean)
	if err != nil {
		return Decoded{}, Variant{}, err
	}
	if len(args) != len(generic) {
		return Decoded{}, Variant{}, fmt.Errorf("opcode %#04x: %d operands but %d generic tokens", e.Op, len(args), len(generic))
	}

	fields := make([]string, len(args))
	for i, a := range args {
		fields[i] = a.Type
	}

	d := Decoded{
		Entry:   e,
		Head:    head,
		Variant: shapeName(head, generic),
		Args:    args,
	}
	v := Variant{
		Name:   d.Variant,
		Format: shapeFormat(head, generic),
		Fields: fields,
	}
	return d, v, nil
}
