package opcode

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// The generated fragments are partial Go source for manual inclusion
// in the emulator: variant struct declarations, the decode switch
// bodies, String() methods and the size/timing table rows. They are
// fragments, not complete files, so no gofmt pass here.

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"fields": fieldList,
	"args":   argList,
	"ctor":   ctorArgs,
	"mc":     machineCycles,
}).Parse(`
{{- define "defs" -}}
{{range .Variants}}type {{.Name}} struct{{if .Fields}}{ {{fields .Fields}} }{{else}}{}{{end}}
{{end}}{{end}}

{{- define "decode" -}}
{{range .Base}}case {{printf "0x%02X" .Low}}: return {{.Variant}}{{ctor .Args}}, nil
{{end}}// 0xCB-prefixed, dispatched after the prefix byte is consumed
{{range .CB}}case {{printf "0x%02X" .Low}}: return {{.Variant}}{{ctor .Args}}, nil
{{end}}{{end}}

{{- define "display" -}}
{{range .Variants}}func (i {{.Name}}) String() string { return {{if .Fields}}fmt.Sprintf({{printf "%q" .Format}}{{args .Fields}}){{else}}{{printf "%q" .Format}}{{end}} }
{{end}}{{end}}

{{- define "timing" -}}
{{range .Entries}}{Mnemonic: {{printf "%q" .Head}}, Size: {{.Size}}, Cycles: {{mc .Cycles}}, CyclesBranch: {{mc .CyclesBranch}}},
{{end}}{{end}}`))

// Sections lists the renderable fragments in their default emission
// order.
var Sections = []string{"defs", "decode", "display", "timing"}

// Base returns the decoded entries of the unprefixed table.
func (s *Set) Base() []Decoded {
	return s.Entries[:256]
}

// CB returns the decoded entries of the 0xCB-prefixed table.
func (s *Set) CB() []Decoded {
	return s.Entries[256:]
}

// Render writes the named fragment sections, each under a marker
// comment, in the order given.
func Render(w io.Writer, set *Set, sections []string) error {
	for _, name := range sections {
		if fragments.Lookup(name) == nil {
			return fmt.Errorf("unknown section %q", name)
		}
		if _, err := fmt.Fprintf(w, "// ---- %s ----\n", name); err != nil {
			return err
		}
		if err := fragments.ExecuteTemplate(w, name, set); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
	}
	return nil
}

// fieldList renders variant struct fields: "X0 Reg8; X1 Reg8".
func fieldList(types []string) string {
	fields := make([]string, len(types))
	for i, t := range types {
		fields[i] = fmt.Sprintf("X%d %s", i, t)
	}
	return strings.Join(fields, "; ")
}

// argList renders the Sprintf arguments: ", i.X0, i.X1".
func argList(types []string) string {
	var b strings.Builder
	for i := range types {
		fmt.Fprintf(&b, ", i.X%d", i)
	}
	return b.String()
}

// ctorArgs renders a decode-switch constructor literal body.
func ctorArgs(args []Operand) string {
	exprs := make([]string, len(args))
	for i, a := range args {
		exprs[i] = a.Expr
	}
	return "{" + strings.Join(exprs, ", ") + "}"
}

// machineCycles converts documented clock ticks to 4-tick machine
// cycles, the unit the emulator's timing table uses.
func machineCycles(clocks int) int {
	return clocks / 4
}
