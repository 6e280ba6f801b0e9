package opcode

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// The opcode document holds exactly two 16x16 tables: the base map and
// the 0xCB-prefixed map. Each table has a header row, each row a
// header cell, so opcode = prefix<<8 | row<<4 | col over the rest.
const (
	basePrefix = 0x00
	cbPrefix   = 0xCB
)

// Cell format: "MNEMONIC<br/>SIZE&nbsp;CYCLES[/CYCLES]<br/>Z N H C".
var sizeCycles = regexp.MustCompile(`^([0-9]+)[\s\x{00A0}]+([0-9]+)(?:/([0-9]+))?$`)

// ParseDocument reads the opcode HTML document and returns one Entry
// per table cell, in opcode order: 0x00-0xFF then 0xCB00-0xCBFF.
func ParseDocument(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing opcode document: %w", err)
	}

	// The first two tables are the opcode maps; anything after them
	// (color legends and the like) is ignored.
	tables := findAll(doc, "table")
	if len(tables) < 2 {
		return nil, fmt.Errorf("expected 2 opcode tables, found %d", len(tables))
	}

	var entries []Entry
	for i, prefix := range []uint16{basePrefix, cbPrefix} {
		tbl, err := walkTable(tables[i], prefix)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tbl...)
	}
	return entries, nil
}

// walkTable emits the 256 entries of one opcode table.
func walkTable(table *html.Node, prefix uint16) ([]Entry, error) {
	rows := findAll(table, "tr")
	if len(rows) != 17 {
		return nil, fmt.Errorf("prefix %#02x: expected 17 table rows, found %d", prefix, len(rows))
	}

	var entries []Entry
	for r, row := range rows[1:] {
		cells := findAll(row, "td")
		if len(cells) != 17 {
			return nil, fmt.Errorf("prefix %#02x row %d: expected 17 cells, found %d", prefix, r, len(cells))
		}
		for c, cell := range cells[1:] {
			op := prefix<<8 | uint16(r)<<4 | uint16(c)
			e, err := parseCell(op, cellSegments(cell))
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// cellSegments flattens a cell's contents into text segments split at
// <br> elements.
func cellSegments(cell *html.Node) []string {
	var segs []string
	var cur strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.ElementNode && c.Data == "br":
				segs = append(segs, cur.String())
				cur.Reset()
			case c.Type == html.TextNode:
				cur.WriteString(c.Data)
			default:
				walk(c)
			}
		}
	}
	walk(cell)
	return append(segs, cur.String())
}

// parseCell builds the Entry for one opcode. A cell holding only
// non-breaking spaces marks an officially undefined opcode.
func parseCell(op uint16, segs []string) (Entry, error) {
	if strings.Trim(strings.Join(segs, ""), "\u00a0 \t\r\n") == "" {
		return Entry{
			Op:       op,
			Mnemonic: "INVALID",
			Size:     1,
			Cycles:   4, // one machine cycle
			Invalid:  true,
		}, nil
	}
	if len(segs) != 3 {
		return Entry{}, fmt.Errorf("opcode %#04x: expected 3 cell segments, found %d", op, len(segs))
	}

	mnemonic := strings.TrimSpace(strings.ReplaceAll(segs[0], "\u00a0", " "))
	m := sizeCycles.FindStringSubmatch(strings.TrimSpace(segs[1]))
	if m == nil {
		return Entry{}, fmt.Errorf("opcode %#04x: malformed size/cycles %q", op, segs[1])
	}

	size, _ := strconv.Atoi(m[1])
	cycles, _ := strconv.Atoi(m[2])
	branch := 0
	if m[3] != "" {
		// Conditional opcodes document both outcomes; the cell order
		// varies, so keep the smaller count as the base.
		branch, _ = strconv.Atoi(m[3])
		if branch < cycles {
			cycles, branch = branch, cycles
		}
	}

	return Entry{
		Op:           op,
		Mnemonic:     mnemonic,
		Size:         size,
		Cycles:       cycles,
		CyclesBranch: branch,
		Flags:        strings.TrimSpace(segs[2]),
	}, nil
}

// findAll returns every element named tag under n, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
