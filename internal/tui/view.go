package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpKeys = [][2]string{
	{"↑↓←→", "pan"},
	{"+/-", "zoom"},
	{"0", "reset"},
	{"1/2/3", "layers"},
	{"l", "all layers"},
	{"Tab", "files"},
	{"Enter", "open"},
	{"p", "paste"},
	{"a", "attrs"},
	{"i", "inspect"},
	{"h", "help"},
	{"q", "quit"},
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	width := max(10, m.width)
	_, _, w, h := m.layout()

	body := m.mainPane(w, h)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
		side := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, " ", body)
	}
	ui := lipgloss.JoinVertical(lipgloss.Left, m.header(width), body, m.footer(width, w, h))
	return appStyle.Width(width).Height(m.height).MaxHeight(m.height).Render(ui)
}

// header shows the title and, once data is loaded, its name and extent.
func (m Model) header(width int) string {
	line := titleStyle.Render(" geoscale ")
	if m.hasBBox {
		line += dimStyle.Render(fmt.Sprintf(" %s  x %.5g..%.5g  y %.5g..%.5g",
			m.data.Name, m.bbox.MinX, m.bbox.MaxX, m.bbox.MinY, m.bbox.MaxY))
	}
	return lipgloss.NewStyle().Width(width).MaxHeight(headerHeight).Render(line)
}

// mainPane fills the w x h map area with whichever view is active.
func (m Model) mainPane(w, h int) string {
	var content string
	switch {
	case m.showAttrs:
		content = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.attrsBox(w, h))
	case m.pasteMode:
		m.ta.SetWidth(w)
		m.ta.SetHeight(min(h, 12))
		content = m.ta.View()
	case m.inspectPopup != "":
		box := popupStyle.MaxWidth(max(20, min(48, w))).Render(m.inspectPopup)
		content = lipgloss.Place(w, h, lipgloss.Left, lipgloss.Center, box)
	default:
		content = m.renderMap(w, h)
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(content)
}

// footer holds the status line, with hover coordinates and map resolution on
// the right, and the key help below it.
func (m Model) footer(width, w, h int) string {
	var right []string
	if m.ptr.over && m.ptr.hasGeo {
		right = append(right, fmt.Sprintf("x=%.5f y=%.5f", m.ptr.at.X, m.ptr.at.Y))
	}
	if s, ok := m.viewScale(w, h); ok {
		right = append(right, fmt.Sprintf("dot=%.3g", 1/s.Factor))
	}
	status := dimStyle.Render(" " + m.status)
	info := dimStyle.Render(strings.Join(right, "  ") + " ")
	gap := max(1, width-lipgloss.Width(status)-lipgloss.Width(info))
	return lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		status+strings.Repeat(" ", gap)+info,
		m.renderHelp(),
	))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	parts := make([]string, len(helpKeys))
	for i, k := range helpKeys {
		parts[i] = k[0] + " " + k[1]
	}
	return dimStyle.Render(" " + strings.Join(parts, "  "))
}
