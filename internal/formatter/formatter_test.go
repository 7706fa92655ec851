package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
	th "github.com/desertthunder/vidhi/internal/testing"
)

func testExport() *Export {
	return &Export{
		Label:       "hiring",
		GeneratedAt: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		Updates:     th.SampleUpdates()[:2],
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Label   string          `json:"label"`
			Updates []models.Update `json:"updates"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Label != "hiring" || len(decoded.Updates) != 2 {
			t.Errorf("unexpected decoded export %+v", decoded)
		}
		if decoded.Updates[0].ID != "1" {
			t.Errorf("expected id 1, got %s", decoded.Updates[0].ID)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Title,Court,Category,Published,Source" {
			t.Errorf("CSV missing headers, got: %v", records[0])
		}
		if records[1][0] != "1" || records[1][2] != "Supreme Court of India" {
			t.Errorf("unexpected first row %v", records[1])
		}
		if records[1][4] != "2026-03-01" {
			t.Errorf("expected ISO date, got %q", records[1][4])
		}
	})

	t.Run("ExportToCSV Escapes Commas", func(t *testing.T) {
		export := &Export{Updates: []models.Update{{ID: "9", Title: "One, Two"}}}
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"One, Two"`) {
			t.Errorf("expected quoted title, got %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Hiring",
			"**Updates**: 2",
			"## 1. [Law Clerk Recruitment 2026](https://example.com/1)",
			"## 2. Research Associate Vacancy",
			"- **Court**: Delhi High Court",
			"- **Date**: 01 Mar 2026",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown All Label", func(t *testing.T) {
		data, _ := ExportToMarkdown(&Export{Label: "all"})
		if !strings.HasPrefix(string(data), "# All Updates") {
			t.Errorf("expected all-updates title, got %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		export := testExport()
		export.Updates = append(export.Updates, models.Update{ID: "x", Title: "No Court"})

		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "1. Law Clerk Recruitment 2026 (Supreme Court of India, 01 Mar 2026)") {
			t.Errorf("unexpected text output:\n%s", output)
		}
		if !strings.Contains(output, "3. No Court (-, -)") {
			t.Errorf("expected placeholders for missing fields:\n%s", output)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"", FormatJSON},
		{"CSV", FormatCSV},
		{"md", FormatMarkdown},
		{"markdown", FormatMarkdown},
		{"text", FormatText},
		{"txt", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		got, err := WriteExport(testExport(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
		if !strings.HasPrefix(th.MustReadFile(t, path), "ID,Title") {
			t.Error("expected CSV content")
		}
	})

	t.Run("Default Filename", func(t *testing.T) {
		export := testExport()
		if got := DefaultFilename(export, FormatMarkdown); got != "vidhi_hiring_1772452800.md" {
			t.Errorf("unexpected default filename %s", got)
		}
		if got := DefaultFilename(&Export{GeneratedAt: export.GeneratedAt}, FormatText); got != "vidhi_all_1772452800.txt" {
			t.Errorf("unexpected default filename %s", got)
		}
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.json")
		if _, err := WriteExport(testExport(), FormatJSON, path); err == nil {
			t.Error("expected error for missing directory")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected no file written")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		if _, err := WriteExport(testExport(), Format("xml"), filepath.Join(t.TempDir(), "x")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
