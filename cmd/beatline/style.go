package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/beatline/beatline"
)

var styles = struct {
	title, dim, ok, err lipgloss.Style
}{
	title: lipgloss.NewStyle().Bold(true),
	dim:   lipgloss.NewStyle().Faint(true),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("#46a758")),
	err:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e5484d")),
}

// swatch renders a track name in the track's own color.
func swatch(t *beatline.Track) string {
	style := lipgloss.NewStyle().Bold(true)
	if t.Color != "" {
		style = style.Foreground(lipgloss.Color(t.Color))
	}
	return style.Render(t.Name)
}
