package ui

import (
	"strings"
	"testing"
)

func TestBadge(t *testing.T) {
	tc := []struct {
		status string
		want   string
	}{
		{status: "published", want: "PUBLISHED"},
		{status: "in_progress", want: "IN PROGRESS"},
		{status: "unknown", want: "UNKNOWN"},
	}

	for _, tt := range tc {
		t.Run(tt.status, func(t *testing.T) {
			if got := Badge(tt.status); !strings.Contains(got, tt.want) {
				t.Errorf("expected badge to contain %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#000000", "#000000", "#000000", "#000000")

	for name, render := range map[string]func(string) string{
		"title": p.Title, "ok": p.OK, "err": p.Err, "warn": p.Warn, "help": p.Help,
	} {
		t.Run(name, func(t *testing.T) {
			if got := render("hola"); !strings.Contains(got, "hola") {
				t.Errorf("expected rendered text to keep content, got %q", got)
			}
		})
	}
}
