package knowledge

import (
	"strings"

	"valeai/models"
)

// Terms lowercases the query and splits it on whitespace.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Matches reports whether any term is a case-insensitive substring of the
// entry's subject, topic, body or any of its keywords.
func Matches(entry models.KnowledgeEntry, terms []string) bool {
	if len(terms) == 0 {
		return false
	}

	fields := []string{
		strings.ToLower(entry.Subject),
		strings.ToLower(entry.Topic),
		strings.ToLower(entry.Body),
	}
	for _, kw := range entry.KeywordList() {
		fields = append(fields, strings.ToLower(kw))
	}

	for _, term := range terms {
		for _, f := range fields {
			if strings.Contains(f, term) {
				return true
			}
		}
	}
	return false
}

// Filter keeps matching entries, preserving the input order.
func Filter(entries []models.KnowledgeEntry, query string) []models.KnowledgeEntry {
	terms := Terms(query)
	out := make([]models.KnowledgeEntry, 0)
	for _, e := range entries {
		if Matches(e, terms) {
			out = append(out, e)
		}
	}
	return out
}
