// package formatter exports the editorial calendar to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/models"
	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts csv, md/markdown and txt/text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Calendar is a titled set of contents to export.
//
// Authors maps user IDs to display names; unknown IDs are printed as is.
type Calendar struct {
	Title    string
	Contents []*models.Content
	Authors  map[string]string
	Location *time.Location
}

func (c *Calendar) author(id string) string {
	if name, ok := c.Authors[id]; ok {
		return name
	}
	return id
}

// chronological returns the contents oldest first with undated ones last, keeping input
// order among equal dates.
func (c *Calendar) chronological() []*models.Content {
	contents := slices.Clone(c.Contents)
	slices.SortStableFunc(contents, func(a, b *models.Content) int {
		switch {
		case a.PublicationDate == nil && b.PublicationDate == nil:
			return 0
		case a.PublicationDate == nil:
			return 1
		case b.PublicationDate == nil:
			return -1
		}
		return a.PublicationDate.Compare(*b.PublicationDate)
	})
	return contents
}

func (c *Calendar) date(t *time.Time) string {
	if t == nil {
		return ""
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(time.DateOnly)
}

// ExportToCSV writes one row per content, oldest first, with columns: Date, Type, Name, Author, Ready, Medium, List
func ExportToCSV(cal *Calendar) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "Type", "Name", "Author", "Ready", "Medium", "List"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, content := range cal.chronological() {
		medium := ""
		if !content.Medium.IsZero() {
			medium = content.Medium.String()
		}
		record := []string{
			cal.date(content.PublicationDate),
			string(content.Type),
			content.Name,
			cal.author(content.AuthorID),
			strconv.FormatBool(content.Ready),
			medium,
			content.ListID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown groups contents under one heading per publication day.
// Undated contents are listed last under "Sin fecha".
func ExportToMarkdown(cal *Calendar) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", cal.Title)
	fmt.Fprintf(&buf, "**Contenidos**: %d\n", len(cal.Contents))

	current := "-"
	for _, content := range cal.chronological() {
		day := cal.date(content.PublicationDate)
		if day != current {
			heading := day
			if heading == "" {
				heading = "Sin fecha"
			}
			fmt.Fprintf(&buf, "\n## %s\n\n", heading)
			current = day
		}

		check := " "
		if content.Ready {
			check = "x"
		}
		fmt.Fprintf(&buf, "- [%s] **%s** %s (%s)\n", check, content.Type, content.Name, cal.author(content.AuthorID))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the calendar to a numbered plain text list
func ExportToText(cal *Calendar) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", cal.Title)
	fmt.Fprintf(&buf, "Contenidos: %d\n\n", len(cal.Contents))

	for i, content := range cal.chronological() {
		day := cal.date(content.PublicationDate)
		if day == "" {
			day = "----------"
		}
		fmt.Fprintf(&buf, "%d. %s %s - %s\n", i+1, day, content.Type, content.Name)
	}

	return buf.Bytes(), nil
}

// Export encodes the calendar in format.
func Export(cal *Calendar, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(cal)
	case FormatMarkdown:
		return ExportToMarkdown(cal)
	case FormatText:
		return ExportToText(cal)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
}

// WriteExport writes the encoded calendar to path.
//
// Defaults to the slugged title with the format's extension.
func WriteExport(cal *Calendar, format Format, path string) (string, error) {
	if path == "" {
		path = slug(cal.Title) + "." + string(format)
	}

	data, err := Export(cal, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	if s == "" {
		return "calendar"
	}
	return s
}
