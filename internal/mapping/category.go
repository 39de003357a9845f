package mapping

import "strings"

// keywordRules map raw vendor problem types onto canonical categories by
// case-insensitive substring match, checked in order.
var keywordRules = []struct {
	keywords []string
	category string
}{
	{[]string{"account", "billing"}, "Account Management"},
	{[]string{"software", "application"}, "Software"},
	{[]string{"hardware", "printer"}, "Hardware"},
	{[]string{"network", "wifi", "internet"}, "Network"},
	{[]string{"server", "cloud"}, "Server"},
	{[]string{"security", "password"}, "Security"},
}

// catchAllCategory receives raw problem types matching no keyword rule.
// Tables without a row for it still resolve those tickets to the
// sentinel assignee.
const catchAllCategory = "Level 1"

// NormalizeCategory maps a raw ticket problem type onto a canonical
// category, defaulting to the catch-all category when no rule matches.
func NormalizeCategory(raw string) string {
	lowered := strings.ToLower(raw)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return catchAllCategory
}
