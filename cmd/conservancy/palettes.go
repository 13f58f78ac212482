package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
	"github.com/alexisbeaulieu97/conservancy/internal/tokens"
)

func newPalettesCmd() *cobra.Command {
	var (
		css  bool
		dark bool
	)

	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List the colour palettes with swatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if css {
				_, err := io.WriteString(out, tokens.Stylesheet())
				return err
			}
			if isTerminal(out) {
				return writeSwatches(out)
			}
			return writePaletteTable(out, dark)
		},
	}

	cmd.Flags().BoolVar(&css, "css", false, "Print the design-token stylesheet instead")
	cmd.Flags().BoolVar(&dark, "dark", false, "Print dark variants in plain output")

	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeSwatches(w io.Writer) error {
	label := lipgloss.NewStyle().Width(12).Bold(true)
	for _, p := range appearance.Palettes() {
		name := string(p)
		if p.IsDefault() {
			name += "*"
		}
		if _, err := fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), tokens.SwatchRow(p))); err != nil {
			return err
		}
	}
	return nil
}

func writePaletteTable(w io.Writer, dark bool) error {
	for _, p := range appearance.Palettes() {
		line := string(p)
		if p.IsDefault() {
			line += " (default)"
		}
		for _, role := range tokens.For(p).Roles(dark) {
			line += fmt.Sprintf(" %s=%s", role.Name, role.Colour)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
