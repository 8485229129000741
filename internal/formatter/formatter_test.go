package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/shared"
	th "github.com/desertthunder/studio/internal/testing"
)

func testSession() *models.Session {
	session := models.NewSession(1, "Ada Lovelace", "pkg-1", "4x6", "folder-9")
	session.SetID("sess-1")
	session.SetSlots([]models.Slot{
		{ID: "s1", GroupID: "g1", GroupName: "Single (Print #1)", TemplateID: "single", IndexInGroup: 0, PhotoRef: "photo-a", PrintSize: "4x6"},
		{ID: "s2", GroupID: "g2", GroupName: "Duo (Print #2)", TemplateID: "duo", IndexInGroup: 0, PrintSize: "4x6"},
		{ID: "s3", GroupID: "g2", GroupName: "Duo (Print #2)", TemplateID: "duo", IndexInGroup: 1, PhotoRef: "photo-b", PrintSize: "4x6"},
	})
	return session
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSession())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header and 3 rows, got %d lines", len(lines))
		}
		if lines[0] != "Group,Print,Index,Slot,Template,Photo,Size" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if lines[1] != "g1,Single (Print #1),0,s1,single,photo-a,4x6" {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if lines[2] != "g2,Duo (Print #2),0,s2,duo,,4x6" {
			t.Errorf("unexpected empty-photo row: %s", lines[2])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSession())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Ada Lovelace",
			"**Print size**: 4x6",
			"**Drive folder**: `folder-9`",
			"**Prints**: 2",
			"**Photos**: 2/3",
			"## Duo (Print #2)",
			"| 1 | `s2` | _empty_ |",
			"| 2 | `s3` | `photo-b` |",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSession())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Session: Ada Lovelace (sess-1)",
			"Prints: 2, photos: 2/3",
			"1. Single (Print #1) [single] group=g1",
			"2. Duo (Print #2) [duo] group=g2",
			"   1: -  slot=s2",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testSession())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			ID    string        `json:"id"`
			Slots []models.Slot `json:"slots"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.ID != "sess-1" || len(decoded.Slots) != 3 {
			t.Errorf("unexpected decoded session: %+v", decoded)
		}
	})

	t.Run("Empty session", func(t *testing.T) {
		session := models.NewSession(1, "Grace", "", "5x7", "")
		session.SetID("sess-2")

		for _, f := range []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON} {
			if _, err := Export(session, f); err != nil {
				t.Errorf("Export(%s) failed: %v", f, err)
			}
		}

		data, _ := ExportToJSON(session)
		if !strings.Contains(string(data), `"slots": []`) {
			t.Errorf("expected empty slot array, got %s", data)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "TXT", want: FormatText},
		{in: "csv", want: FormatCSV},
		{in: "markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: " json ", want: FormatJSON},
		{in: "pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			path, err := WriteExport(testSession(), FormatMarkdown, "")
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}

			if path != "sess-1.md" {
				t.Errorf("Expected file 'sess-1.md', got '%s'", path)
			}
			th.AssertFileExists(t, filepath.Join(tempDir, path))
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ada.csv")

			got, err := WriteExport(testSession(), FormatCSV, path)
			if err != nil {
				t.Fatalf("WriteExport failed: %v", err)
			}
			if got != path {
				t.Errorf("Expected %s, got %s", path, got)
			}

			content := th.MustReadFile(t, path)
			if !strings.HasPrefix(content, "Group,Print") {
				t.Errorf("unexpected content: %s", content)
			}
		})

		t.Run("InvalidDirectory", func(t *testing.T) {
			_, err := WriteExport(testSession(), FormatText, filepath.Join(t.TempDir(), "missing", "out.txt"))
			if err == nil {
				t.Error("expected error for missing directory")
			}
		})
	})
}
