// package formatter provides functions to export update lists to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}
}

// ParseFormat accepts a format name or common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Export is a titled list of updates.
type Export struct {
	Label       string          `json:"label"` // Category name, or "all"
	GeneratedAt time.Time       `json:"generated_at"`
	Updates     []models.Update `json:"updates"`
}

// NewExport creates an export stamped with the current time.
func NewExport(label string, updates []models.Update) *Export {
	if updates == nil {
		updates = []models.Update{}
	}
	return &Export{Label: label, GeneratedAt: time.Now().UTC(), Updates: updates}
}

func (e *Export) title() string {
	if c, err := models.ParseCategory(e.Label); err == nil {
		return c.Title()
	}
	return "All Updates"
}

// ExportToJSON encodes the export as indented JSON.
func ExportToJSON(export *Export) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ExportToCSV converts an export to CSV format with columns: ID, Title, Court, Category, Published, Source
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Court", "Category", "Published", "Source"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, u := range export.Updates {
		published := u.PublishedDate.Raw
		if !u.PublishedDate.IsZero() {
			published = u.PublishedDate.Format(time.DateOnly)
		}
		record := []string{
			u.ID.String(),
			u.Title,
			u.CourtName,
			u.Category,
			published,
			u.SourceURL,
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

// ExportToMarkdown converts an export to a Markdown document with one section per update
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.title()))
	buf.WriteString(fmt.Sprintf("**Updates**: %d\n", len(export.Updates)))
	buf.WriteString(fmt.Sprintf("**Generated**: %s\n\n", export.GeneratedAt.Format(time.RFC1123)))

	for i, u := range export.Updates {
		title := u.Title
		if u.SourceURL != "" {
			title = fmt.Sprintf("[%s](%s)", u.Title, u.SourceURL)
		}
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, title))

		court := u.CourtName
		if court == "" {
			court = "-"
		}
		buf.WriteString(fmt.Sprintf("- **Court**: %s\n", court))
		buf.WriteString(fmt.Sprintf("- **Date**: %s\n", u.PublishedDate.Date()))
		if u.Category != "" {
			buf.WriteString(fmt.Sprintf("- **Category**: %s\n", u.Category))
		}
		if u.ContentSummary != "" {
			buf.WriteString(fmt.Sprintf("\n%s\n", u.ContentSummary))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", export.title()))
	buf.WriteString(fmt.Sprintf("Updates: %d\n\n", len(export.Updates)))

	for i, u := range export.Updates {
		court := u.CourtName
		if court == "" {
			court = "-"
		}
		buf.WriteString(fmt.Sprintf("%d. %s (%s, %s)\n", i+1, u.Title, court, u.PublishedDate.Date()))
	}

	return buf.Bytes(), nil
}

// Render encodes export in format f.
func Render(export *Export, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(export)
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	}
	return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, f)
}

// DefaultFilename returns vidhi_{label}_{epoch}.{ext}.
func DefaultFilename(export *Export, f Format) string {
	label := export.Label
	if label == "" {
		label = "all"
	}
	return fmt.Sprintf("vidhi_%s_%d.%s", label, export.GeneratedAt.Unix(), f.Extension())
}

// WriteExport renders export and writes it to path.
//
// Defaults to [DefaultFilename] in the working directory.
func WriteExport(export *Export, f Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(export, f)
	}

	data, err := Render(export, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
