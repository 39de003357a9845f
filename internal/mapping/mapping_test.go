package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudavize/ticket-relay/internal/domain"
)

const sampleCSV = `category,technician,mention_id,email
Network,Jane Doe,abc,jdoe@example.com
Software,Carl Tamayo,29:software-carl,ctamayo@example.com
Account Management,Jomaree Lawsin,,jlawsin@example.com
Level 1,Michael Barbin,29:level1-michael,mbarbin@example.com
`

func mustParse(t *testing.T, defaultMention string) *Table {
	t.Helper()
	table, err := Parse(strings.NewReader(sampleCSV), defaultMention)
	require.NoError(t, err)
	return table
}

func TestParse(t *testing.T) {
	t.Run("should load all rows and skip the header", func(t *testing.T) {
		table := mustParse(t, "")
		assert.Equal(t, 4, table.Len())
	})

	t.Run("should reject duplicate categories", func(t *testing.T) {
		csv := "Network,Jane Doe,abc\nnetwork,John Roe,def\n"
		_, err := Parse(strings.NewReader(csv), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate category")
	})

	t.Run("should reject an empty table", func(t *testing.T) {
		_, err := Parse(strings.NewReader("category,technician,mention\n"), "")
		require.Error(t, err)
	})

	t.Run("should reject rows missing a technician column", func(t *testing.T) {
		_, err := Parse(strings.NewReader("Network\n"), "")
		require.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	table := mustParse(t, "zzz")

	t.Run("should match configured rows exactly", func(t *testing.T) {
		a := table.Resolve("Network")
		assert.Equal(t, "Jane Doe", a.Technician)
		assert.Equal(t, "abc", a.MentionID)
		assert.Equal(t, "jdoe@example.com", a.Email)
	})

	t.Run("should match case-insensitively", func(t *testing.T) {
		a := table.Resolve("NETWORK")
		assert.Equal(t, "Jane Doe", a.Technician)
	})

	t.Run("should normalize raw problem types through keyword rules", func(t *testing.T) {
		a := table.Resolve("Office WiFi outage")
		assert.Equal(t, "Jane Doe", a.Technician)

		a = table.Resolve("Billing question")
		assert.Equal(t, "Jomaree Lawsin", a.Technician)
	})

	t.Run("should route unmatched problem types to the Level 1 row", func(t *testing.T) {
		a := table.Resolve("Something strange")
		assert.Equal(t, "Michael Barbin", a.Technician)
		assert.Equal(t, "29:level1-michael", a.MentionID)
	})

	t.Run("should fall through to the sentinel assignee without a Level 1 row", func(t *testing.T) {
		csv := "Network,Jane Doe,abc\n"
		noCatchAll, err := Parse(strings.NewReader(csv), "zzz")
		require.NoError(t, err)

		a := noCatchAll.Resolve("Unknown")
		assert.Equal(t, domain.SentinelAssignee, a.Technician)
		assert.True(t, a.IsSentinel())
		assert.Empty(t, a.MentionID)
	})
}

func TestMentionFor(t *testing.T) {
	table := mustParse(t, "zzz")

	t.Run("should return the configured identity", func(t *testing.T) {
		assert.Equal(t, "abc", table.MentionFor("Jane Doe"))
	})

	t.Run("should not substitute the default for a mapped technician", func(t *testing.T) {
		assert.NotEqual(t, "zzz", table.MentionFor("Jane Doe"))
	})

	t.Run("should fall back to the default identity for unknown names", func(t *testing.T) {
		assert.Equal(t, "zzz", table.MentionFor("Somebody Else"))
	})

	t.Run("should resolve the sentinel assignee to an empty identity", func(t *testing.T) {
		assert.Empty(t, table.MentionFor(domain.SentinelAssignee))
	})

	t.Run("should resolve an empty name to an empty identity", func(t *testing.T) {
		assert.Empty(t, table.MentionFor(""))
	})
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"Account issue":     "Account Management",
		"billing dispute":   "Account Management",
		"Software crash":    "Software",
		"Printer jam":       "Hardware",
		"wifi down":         "Network",
		"Cloud migration":   "Server",
		"Password reset":    "Security",
		"Something strange": "Level 1",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeCategory(raw), "raw %q", raw)
	}
}
