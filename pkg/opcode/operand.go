package opcode

import (
	"fmt"
	"regexp"
)

// Operand is one classified operand of a concrete opcode: the
// expression that produces its value in the decode switch, and the Go
// type it occupies in the variant struct.
type Operand struct {
	Expr string // e.g. "Reg8B", "CondNZ", "0x38", "r.U16()"
	Type string // e.g. "Reg8", "Cond", "uint8", "uint16", "int8"
}

// UnknownTokenError reports an operand token that matches no known
// category. It always means the table documents a mnemonic form the
// generator has never seen, so generation halts rather than skipping.
type UnknownTokenError struct {
	Op    uint16
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("opcode %#04x: unrecognized operand token %q", e.Op, e.Token)
}

// immediates maps the table's immediate placeholders to the Go type of
// the value read from the instruction stream. The digits in the
// placeholder give the read width; r8 is the one signed form (relative
// jump offsets).
var immediates = map[string]string{
	"d8":  "uint8",
	"d16": "uint16",
	"a8":  "uint8",
	"a16": "uint16",
	"r8":  "int8",
}

var (
	branchHeads = map[string]bool{"JP": true, "JR": true, "CALL": true, "RET": true}
	conditions  = map[string]bool{"Z": true, "NZ": true, "C": true, "NC": true}
	reg16Names  = map[string]bool{
		"AF": true, "BC": true, "DE": true, "HL": true,
		"HLP": true, "HLS": true, "SP": true, "PC": true,
	}
	reg8Names = map[string]bool{
		"A": true, "F": true, "B": true, "C": true,
		"D": true, "E": true, "H": true, "L": true,
	}
	hexLit     = regexp.MustCompile(`^([0-9]+)H$`)
	decLit     = regexp.MustCompile(`^[0-9]+$`)
	immLit     = regexp.MustCompile(`^[a-z]([0-9]+)$`)
	parenStrip = regexp.MustCompile(`[()]`)
)

// classify turns one concrete operand token (from the clean mnemonic,
// parentheses already stripped) into an Operand. The head decides
// whether a bare C or Z is a condition or a register.
func classify(op uint16, head, tok string) (Operand, error) {
	switch {
	case branchHeads[head] && conditions[tok]:
		return Operand{Expr: "Cond" + tok, Type: "Cond"}, nil
	case reg16Names[tok]:
		return Operand{Expr: "Reg16" + tok, Type: "Reg16"}, nil
	case reg8Names[tok]:
		return Operand{Expr: "Reg8" + tok, Type: "Reg8"}, nil
	}
	if m := hexLit.FindStringSubmatch(tok); m != nil {
		return Operand{Expr: "0x" + m[1], Type: "uint8"}, nil
	}
	if decLit.MatchString(tok) {
		return Operand{Expr: tok, Type: "uint8"}, nil
	}
	if m := immLit.FindStringSubmatch(tok); m != nil {
		typ, ok := immediates[tok]
		if !ok {
			return Operand{}, &UnknownTokenError{Op: op, Token: tok}
		}
		read := "r.U" + m[1] + "()"
		if typ == "int8" {
			read = "int8(" + read + ")"
		}
		return Operand{Expr: read, Type: typ}, nil
	}
	return Operand{}, &UnknownTokenError{Op: op, Token: tok}
}

// classifyAll classifies every operand token of a clean mnemonic.
func classifyAll(op uint16, clean string) ([]Operand, error) {
	head, toks := tokens(clean)
	operands := make([]Operand, 0, len(toks))
	for _, t := range toks {
		o, err := classify(op, head, parenStrip.ReplaceAllString(t, ""))
		if err != nil {
			return nil, err
		}
		operands = append(operands, o)
	}
	return operands, nil
}
