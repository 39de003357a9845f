// Package mapping loads the static category-to-technician table and
// resolves tickets to an assignment with a chat mention identity.
package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloudavize/ticket-relay/internal/domain"
)

// Table holds the category → technician rows loaded from configuration.
// Each category maps to exactly one technician.
type Table struct {
	rows             map[string]domain.Assignment
	mentionsByTech   map[string]string
	defaultMentionID string
}

// Load reads the mapping file. Columns: category, technician,
// mention-identity-or-blank, optional email. A header row starting with
// "category" is skipped.
func Load(path, defaultMentionID string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()
	return Parse(f, defaultMentionID)
}

// Parse reads mapping rows from r. Duplicate categories are a load error:
// the table must be unambiguous about who owns a category.
func Parse(r io.Reader, defaultMentionID string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	t := &Table{
		rows:             make(map[string]domain.Assignment),
		mentionsByTech:   make(map[string]string),
		defaultMentionID: defaultMentionID,
	}

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read mapping row %d: %w", line, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("mapping row %d: want at least category and technician, got %d fields", line, len(record))
		}
		category := strings.TrimSpace(record[0])
		if line == 1 && strings.EqualFold(category, "category") {
			continue
		}
		if category == "" {
			continue
		}
		technician := strings.TrimSpace(record[1])
		var mentionID, email string
		if len(record) > 2 {
			mentionID = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			email = strings.TrimSpace(record[3])
		}

		key := normalizeKey(category)
		if _, exists := t.rows[key]; exists {
			return nil, fmt.Errorf("mapping row %d: duplicate category %q", line, category)
		}
		t.rows[key] = domain.Assignment{
			Technician: technician,
			MentionID:  mentionID,
			Email:      email,
		}
		if mentionID != "" {
			t.mentionsByTech[strings.ToLower(technician)] = mentionID
		}
	}

	if len(t.rows) == 0 {
		return nil, fmt.Errorf("mapping table is empty")
	}
	return t, nil
}

// Resolve returns the assignment for a raw ticket category. An exact row
// match wins; otherwise the category is normalized through the keyword
// rules and looked up again. A miss resolves to the sentinel assignee.
func (t *Table) Resolve(category string) domain.Assignment {
	if a, ok := t.rows[normalizeKey(category)]; ok {
		return a
	}
	if a, ok := t.rows[normalizeKey(NormalizeCategory(category))]; ok {
		return a
	}
	return domain.NeedsHumanInput()
}

// MentionFor resolves a technician display name to a mention identity.
// Unknown names fall back to the configured default identity; the sentinel
// assignee resolves to an empty identity so no mention is rendered.
func (t *Table) MentionFor(technician string) string {
	if technician == "" || technician == domain.SentinelAssignee {
		return ""
	}
	if id, ok := t.mentionsByTech[strings.ToLower(technician)]; ok {
		return id
	}
	return t.defaultMentionID
}

// Len reports the number of configured rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func normalizeKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
