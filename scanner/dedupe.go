package scanner

import (
	"github.com/SergeiSkv/SwiftA11y/models"
)

// Deduplicate collapses issues sharing a key, preserving first-seen order.
// Multiple control lines within WindowSize of the same icon all detect it;
// this reduces them to one issue keyed by (path, icon line, symbol, rule).
func Deduplicate(issues []*models.Issue) []*models.Issue {
	if len(issues) < 2 {
		return issues
	}

	seen := make(map[models.IssueKey]struct{}, len(issues))
	unique := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, issue)
	}
	return unique
}
