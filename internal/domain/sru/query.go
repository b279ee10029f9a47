package sru

import (
	"regexp"
	"strings"
)

var serverChoiceRe = regexp.MustCompile(`^cql\.serverChoice\s*=\s*"(.*)"$`)

// UnwrapServerChoice returns the quoted term of a cql.serverChoice="..."
// clause, or the trimmed query unchanged.
func UnwrapServerChoice(query string) string {
	query = strings.TrimSpace(query)
	if m := serverChoiceRe.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	return query
}
