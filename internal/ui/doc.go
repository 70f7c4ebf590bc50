// Package ui styles CLI output with lipgloss: a small [Palette] for headings and messages,
// and colored badges for medium and list statuses.
package ui
