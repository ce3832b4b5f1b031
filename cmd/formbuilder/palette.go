package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/palette"
)

var (
	groupStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func newPaletteCommand(a *app) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the components that can be dropped on a form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatPalette(a.palette, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}

// formatPalette lists every group with its items, then the preset sections
// with the children they come with.
func formatPalette(p *palette.Palette, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for _, g := range p.Groups {
		b.WriteString(groupStyle.Render(g.Title))
		b.WriteString("\n")
		for _, item := range g.Items {
			line := fmt.Sprintf("%s %s", item.Label, kindStyle.Render("("+string(item.Type)+")"))
			b.WriteString(indent.String(wordwrap.String(line, width-2), 2))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	labels := make([]string, 0, len(p.Sections))
	for label := range p.Sections {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	if len(labels) > 0 {
		b.WriteString(groupStyle.Render("Section presets"))
		b.WriteString("\n")
	}
	for _, label := range labels {
		children := make([]string, 0, len(p.Sections[label]))
		for _, child := range p.Sections[label] {
			children = append(children, child.Label)
		}
		line := sectionStyle.Render(label) + ": " + strings.Join(children, ", ")
		b.WriteString(indent.String(wordwrap.String(line, width-2), 2))
		b.WriteString("\n")
	}
	return b.String()
}
