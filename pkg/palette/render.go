package palette

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// The emitted fragments target the emulator's compatibility-palette
// tables: the color triple table, one KeyPalette literal per button
// combo, and switch cases mapping (title, variant) keys to the shared
// CustomPalette literals.

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"rgb": func(c string) string {
		r, g, b := rgb(c)
		return fmt.Sprintf("{0x%02X, 0x%02X, 0x%02X},", r, g, b)
	},
}).Parse(`
{{- define "colors" -}}
{{range .Colors}}{{rgb .}}
{{end}}{{end}}

{{- define "buttons" -}}
{{range .KeyPalettes}}KeyPalette{Keys: {{printf "%q" .Keys}}, Palette: {{.Palette}}},
{{end}}{{end}}

{{- define "titles" -}}
{{range .TitlePalettes}}case {{.Keys}}:
	return {{.Palette}}
{{end}}{{end}}`))

// Sections lists the renderable fragments in their default emission
// order.
var Sections = []string{"colors", "buttons", "titles"}

// renderedPalette pairs a palette literal with whatever keys select it.
type renderedPalette struct {
	Keys    string
	Palette string
}

// KeyPalettes renders each button-combo row's palette with its slots
// resolved to color indexes, input order preserved.
func (t *Tables) KeyPalettes() []renderedPalette {
	out := make([]renderedPalette, 0, len(t.Buttons))
	for _, b := range t.Buttons {
		out = append(out, renderedPalette{Keys: b.Keys, Palette: t.paletteLiteral(b.Slots)})
	}
	return out
}

// TitlePalettes renders the per-title palettes grouped by identical
// resolved palette: all (title, variant) keys sharing one palette
// become a single case. Group order and member order both follow
// first appearance in the input.
func (t *Tables) TitlePalettes() []renderedPalette {
	groups := make(map[string]int)
	var out []renderedPalette
	for _, row := range t.Titles {
		lit := t.paletteLiteral(row.Slots)
		key := fmt.Sprintf("titleKey{%q, %q}", row.Title, row.Variant)
		if i, ok := groups[lit]; ok {
			out[i].Keys += ", " + key
			continue
		}
		groups[lit] = len(out)
		out = append(out, renderedPalette{Keys: key, Palette: lit})
	}
	return out
}

// paletteLiteral renders 12 resolved slots as a CustomPalette literal:
// 4 background, 4 object-0, 4 object-1 indexes.
func (t *Tables) paletteLiteral(slots []string) string {
	idx := make([]int, len(slots))
	for i, c := range slots {
		idx[i] = t.Index(c)
	}
	return fmt.Sprintf("CustomPalette{BG: %s, OBJ0: %s, OBJ1: %s}",
		indexArray(idx[0:4]), indexArray(idx[4:8]), indexArray(idx[8:12]))
}

func indexArray(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[4]uint8{" + strings.Join(parts, ", ") + "}"
}

// Render writes the named fragment sections, each under a marker
// comment, in the order given.
func Render(w io.Writer, t *Tables, sections []string) error {
	for _, name := range sections {
		if fragments.Lookup(name) == nil {
			return fmt.Errorf("unknown section %q", name)
		}
		if _, err := fmt.Fprintf(w, "// ---- %s ----\n", name); err != nil {
			return err
		}
		if err := fragments.ExecuteTemplate(w, name, t); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
	}
	return nil
}
