package main

import (
	"bytes"
	"os"

	"github.com/crzysdrs/gbgen/pkg/opcode"
	"github.com/crzysdrs/gbgen/pkg/palette"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gbgen",
		Short: "Offline code generators for the Game Boy emulator",
	}

	// opcodes command
	var input string
	var sections []string

	opcodesCmd := &cobra.Command{
		Use:   "opcodes",
		Short: "Generate instruction definitions from the opcode table document",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := opcode.ParseDocument(f)
			if err != nil {
				return err
			}
			set, err := opcode.Decode(entries)
			if err != nil {
				return err
			}

			// Render fully before touching stdout: a failed run emits
			// nothing rather than a truncated fragment.
			var buf bytes.Buffer
			if err := opcode.Render(&buf, set, sections); err != nil {
				return err
			}
			_, err = buf.WriteTo(os.Stdout)
			return err
		},
	}
	opcodesCmd.Flags().StringVar(&input, "input", "gameboy_opcodes.html", "Opcode table HTML document")
	opcodesCmd.Flags().StringSliceVar(&sections, "section", opcode.Sections, "Sections to emit (defs, decode, display, timing)")

	// palette command
	var buttons string
	var titles string
	var paletteSections []string

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Generate compatibility palette tables from the CSV exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := os.Open(buttons)
			if err != nil {
				return err
			}
			defer bf.Close()
			tf, err := os.Open(titles)
			if err != nil {
				return err
			}
			defer tf.Close()

			tables, err := palette.Load(bf, tf)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := palette.Render(&buf, tables, paletteSections); err != nil {
				return err
			}
			_, err = buf.WriteTo(os.Stdout)
			return err
		},
	}
	paletteCmd.Flags().StringVar(&buttons, "buttons", "listButtonCombos.csv", "Button-combo palette export")
	paletteCmd.Flags().StringVar(&titles, "titles", "listUsedWNames.csv", "Per-title palette export")
	paletteCmd.Flags().StringSliceVar(&paletteSections, "section", palette.Sections, "Sections to emit (colors, buttons, titles)")

	rootCmd.AddCommand(opcodesCmd, paletteCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
