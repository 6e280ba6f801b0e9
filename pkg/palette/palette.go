// Package palette generates the Game Boy Color compatibility-palette
// tables from the two tab-separated exports describing them: the
// boot-ROM button-combo palettes and the per-game-title palettes.
package palette

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
)

// Each palette row carries three 4-slot palettes: background, object 0
// and object 1.
const slotCount = 12

// ButtonRow is one button-combo palette: the key combination name and
// its 12 color slots, still as raw hex strings.
type ButtonRow struct {
	Keys  string
	Slots []string
}

// TitleRow is one per-game palette: the cartridge title, an optional
// disambiguation variant for titles sharing a hash, and its 12 color
// slots.
type TitleRow struct {
	Title   string
	Variant string
	Slots   []string
}

// Tables holds both parsed inputs plus the deduplicated color index
// shared between them.
type Tables struct {
	Buttons []ButtonRow
	Titles  []TitleRow
	Colors  []string // unique colors, lexicographic order
	index   map[string]int
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Load parses the button-combo and title exports and builds the color
// index over every distinct color in either file.
func Load(buttons, titles io.Reader) (*Tables, error) {
	t := &Tables{index: make(map[string]int)}

	brows, err := readRows(buttons, "buttons")
	if err != nil {
		return nil, err
	}
	for i, rec := range brows {
		if len(rec) < 2 {
			return nil, fmt.Errorf("buttons row %d: expected key combo and colors, got %d fields", i+1, len(rec))
		}
		slots, err := colorSlots(rec[1:], "buttons", i)
		if err != nil {
			return nil, err
		}
		t.Buttons = append(t.Buttons, ButtonRow{Keys: rec[0], Slots: slots})
	}

	trows, err := readRows(titles, "titles")
	if err != nil {
		return nil, err
	}
	for i, rec := range trows {
		if len(rec) < 4 {
			return nil, fmt.Errorf("titles row %d: expected title, variant and colors, got %d fields", i+1, len(rec))
		}
		slots, err := colorSlots(rec[3:], "titles", i)
		if err != nil {
			return nil, err
		}
		t.Titles = append(t.Titles, TitleRow{Title: rec[0], Variant: rec[1], Slots: slots})
	}

	t.buildIndex()
	return t, nil
}

// readRows reads a tab-separated export, dropping the header row and
// the per-row bookkeeping columns (two leading, one trailing).
func readRows(r io.Reader, name string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("reading %s: no data rows", name)
	}

	var rows [][]string
	for i, rec := range records[1:] {
		if len(rec) < 4 {
			return nil, fmt.Errorf("%s row %d: too few fields (%d)", name, i+1, len(rec))
		}
		rows = append(rows, rec[2:len(rec)-1])
	}
	return rows, nil
}

// colorSlots validates a row's slotCount hex colors.
func colorSlots(fields []string, name string, row int) ([]string, error) {
	if len(fields) != slotCount {
		return nil, fmt.Errorf("%s row %d: expected %d color slots, got %d", name, row+1, slotCount, len(fields))
	}
	for _, c := range fields {
		if !hexColor.MatchString(c) {
			return nil, fmt.Errorf("%s row %d: malformed color %q", name, row+1, c)
		}
	}
	return fields, nil
}

// buildIndex assigns each distinct color its position in the sorted
// set of all colors from both files.
func (t *Tables) buildIndex() {
	seen := make(map[string]bool)
	for _, b := range t.Buttons {
		for _, c := range b.Slots {
			seen[c] = true
		}
	}
	for _, r := range t.Titles {
		for _, c := range r.Slots {
			seen[c] = true
		}
	}

	t.Colors = make([]string, 0, len(seen))
	for c := range seen {
		t.Colors = append(t.Colors, c)
	}
	sort.Strings(t.Colors)
	for i, c := range t.Colors {
		t.index[c] = i
	}
}

// Index returns the assigned index of a color string.
func (t *Tables) Index(color string) int {
	return t.index[color]
}

// rgb splits a "#RRGGBB" string into its components. Colors are
// validated at load time, so parse errors cannot happen here.
func rgb(color string) (uint8, uint8, uint8) {
	r, _ := strconv.ParseUint(color[1:3], 16, 8)
	g, _ := strconv.ParseUint(color[3:5], 16, 8)
	b, _ := strconv.ParseUint(color[5:7], 16, 8)
	return uint8(r), uint8(g), uint8(b)
}
