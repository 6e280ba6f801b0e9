package opcode

import (
	"regexp"
	"strings"
)

// rule is one step of an ordered rewrite chain.
type rule struct {
	re   *regexp.Regexp
	repl string
}

func (r rule) apply(s string) string {
	return r.re.ReplaceAllString(s, r.repl)
}

// cleanRules make a raw mnemonic splittable into plain operand tokens
// without losing information. HL+/HL- become the synthetic pair names
// HLP/HLS, and the remaining "+" (only in "LD HL,SP+r8") becomes a
// token separator.
var cleanRules = []rule{
	{regexp.MustCompile(`HL\+`), "HLP"},
	{regexp.MustCompile(`\+`), " "},
	{regexp.MustCompile(`HL-`), "HLS"},
}

// genericRules collapse a clean mnemonic to its generic shape. The
// order is load bearing:
//   - bit indexes collapse before registers, so the A in "BIT 7,A" is
//     still recognizable as a register afterwards and the 7 is not;
//   - conditions collapse before registers, so the C in "RET C" is a
//     condition and the C in "ADC A,C" stays a register;
//   - 16-bit pair names collapse before 8-bit names, so H and L never
//     match inside HL.
var genericRules = []rule{
	{regexp.MustCompile(`(SET|BIT|RES) [0-9]+`), "${1} l8"},
	{regexp.MustCompile(`(JP|JR|CALL|RET) (Z|NZ|C|NC)\b`), "${1} COND"},
	{regexp.MustCompile(`\b(AF|BC|DE|HL|HLP|HLS|SP|PC)\b`), "r16"},
	{regexp.MustCompile(`\b(A|F|B|C|D|E|H|L)\b`), "r8"},
	{regexp.MustCompile(`\b[0-9]+H\b`), "LIT"},
}

var (
	tokenSplit = regexp.MustCompile(`[\s,]+`)
	indirect   = regexp.MustCompile(`^\(([a-z0-9]+)\)$`)
)

// Clean rewrites a raw mnemonic into the form operand classification
// works on. Register names and literals are still concrete.
func Clean(mnemonic string) string {
	for _, r := range cleanRules {
		mnemonic = r.apply(mnemonic)
	}
	return mnemonic
}

// Generalize collapses a clean mnemonic to its generic shape, the
// deduplication key shared by all opcodes of the same form. Both
// "LD A,B" and "LD A,C" generalize to "LD r8,r8".
func Generalize(clean string) string {
	for _, r := range genericRules {
		clean = r.apply(clean)
	}
	return clean
}

// tokens splits a mnemonic into its head and operand tokens.
func tokens(mnemonic string) (string, []string) {
	parts := tokenSplit.Split(strings.TrimSpace(mnemonic), -1)
	return parts[0], parts[1:]
}

// shapeName builds the variant identifier for a generic shape.
// Indirect operands keep an "i" marker: "LD (r16),r8" -> "LD_ir16_r8".
func shapeName(head string, generic []string) string {
	parts := []string{head}
	for _, g := range generic {
		if m := indirect.FindStringSubmatch(g); m != nil {
			parts = append(parts, "i"+m[1])
		} else {
			parts = append(parts, g)
		}
	}
	return strings.Join(parts, "_")
}

// shapeFormat builds the Sprintf format for a generic shape, one verb
// per operand: "LD (r16),r8" -> "LD (%v),%v".
func shapeFormat(head string, generic []string) string {
	verbs := make([]string, len(generic))
	for i, g := range generic {
		if indirect.MatchString(g) {
			verbs[i] = "(%v)"
		} else {
			verbs[i] = "%v"
		}
	}
	if len(verbs) == 0 {
		return head
	}
	return head + " " + strings.Join(verbs, ",")
}
