// package formatter provides functions to export session data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/shared"
)

// Format is an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied name to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Export renders session in format f.
func Export(session *models.Session, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return ExportToText(session)
	case FormatCSV:
		return ExportToCSV(session)
	case FormatMarkdown:
		return ExportToMarkdown(session)
	case FormatJSON:
		return ExportToJSON(session)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// ExportToCSV converts a session to CSV format with one row per slot:
// Group, Print, Index, Slot, Template, Photo, Size
func ExportToCSV(session *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Group", "Print", "Index", "Slot", "Template", "Photo", "Size"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range reconcile.GroupSlotsByGroupID(session.Slots()) {
		for _, slot := range group.Slots {
			record := []string{
				slot.GroupID,
				slot.GroupName,
				strconv.Itoa(slot.IndexInGroup),
				slot.ID,
				slot.TemplateID,
				slot.PhotoRef,
				slot.PrintSize,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a session to Markdown with a section and slot table per print
func ExportToMarkdown(session *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	groups := reconcile.GroupSlotsByGroupID(session.Slots())

	buf.WriteString(fmt.Sprintf("# %s\n\n", session.ClientName()))
	buf.WriteString(fmt.Sprintf("**Print size**: %s\n", session.PrintSize()))
	if session.DriveFolderID() != "" {
		buf.WriteString(fmt.Sprintf("**Drive folder**: `%s`\n", session.DriveFolderID()))
	}
	buf.WriteString(fmt.Sprintf("**Prints**: %d\n", len(groups)))
	buf.WriteString(fmt.Sprintf("**Photos**: %d/%d\n\n", filled(session.Slots()), len(session.Slots())))

	for _, group := range groups {
		buf.WriteString(fmt.Sprintf("## %s\n\n", group.Name))
		buf.WriteString(fmt.Sprintf("Template `%s`, group `%s`\n\n", group.TemplateID, group.ID))
		buf.WriteString("| # | Slot | Photo |\n")
		buf.WriteString("|---|------|-------|\n")
		for _, slot := range group.Slots {
			photo := "_empty_"
			if slot.HasPhoto() {
				photo = "`" + slot.PhotoRef + "`"
			}
			buf.WriteString(fmt.Sprintf("| %d | `%s` | %s |\n", slot.IndexInGroup+1, slot.ID, photo))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a session to plain text format
func ExportToText(session *models.Session) ([]byte, error) {
	var buf bytes.Buffer
	groups := reconcile.GroupSlotsByGroupID(session.Slots())

	buf.WriteString(fmt.Sprintf("Session: %s (%s)\n", session.ClientName(), session.ID()))
	buf.WriteString(fmt.Sprintf("Print size: %s\n", session.PrintSize()))
	buf.WriteString(fmt.Sprintf("Prints: %d, photos: %d/%d\n\n", len(groups), filled(session.Slots()), len(session.Slots())))

	for _, group := range groups {
		buf.WriteString(fmt.Sprintf("%d. %s [%s] group=%s\n", group.Ordinal, group.Name, group.TemplateID, group.ID))
		for _, slot := range group.Slots {
			photo := "-"
			if slot.HasPhoto() {
				photo = slot.PhotoRef
			}
			buf.WriteString(fmt.Sprintf("   %d: %s  slot=%s\n", slot.IndexInGroup+1, photo, slot.ID))
		}
	}

	return buf.Bytes(), nil
}

type sessionJSON struct {
	ID            string        `json:"id"`
	ClientName    string        `json:"client_name"`
	PackageID     string        `json:"package_id,omitempty"`
	PrintSize     string        `json:"print_size"`
	DriveFolderID string        `json:"drive_folder_id,omitempty"`
	Slots         []models.Slot `json:"slots"`
}

// ExportToJSON converts a session to indented JSON including its full slot sequence
func ExportToJSON(session *models.Session) ([]byte, error) {
	slots := session.Slots()
	if slots == nil {
		slots = []models.Slot{}
	}

	data, err := json.MarshalIndent(sessionJSON{
		ID:            session.ID(),
		ClientName:    session.ClientName(),
		PackageID:     session.PackageID(),
		PrintSize:     session.PrintSize(),
		DriveFolderID: session.DriveFolderID(),
		Slots:         slots,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders session in format f and writes it to path.
//
// Defaults to "{session ID}.{ext}" in the working directory when path is empty.
func WriteExport(session *models.Session, f Format, path string) (string, error) {
	if path == "" {
		path = session.ID() + "." + f.Extension()
	}

	data, err := Export(session, f)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func filled(slots []models.Slot) int {
	n := 0
	for _, s := range slots {
		if s.HasPhoto() {
			n++
		}
	}
	return n
}
