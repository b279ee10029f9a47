package operation

import "strings"

// Operation is an SRU request verb.
type Operation string

// SRU operation constants.
const (
	Explain        Operation = "explain"
	SearchRetrieve Operation = "searchRetrieve"
	// Scan is part of the SRU verb set but not served by this endpoint.
	Scan Operation = "scan"
)

// Default is used when the request carries no operation parameter.
const Default = SearchRetrieve

// Parse maps a raw parameter to a known operation. Matching ignores case and
// surrounding whitespace; an empty value yields Default.
func Parse(raw string) (Operation, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Default, true
	}
	for _, op := range []Operation{Explain, SearchRetrieve, Scan} {
		if strings.EqualFold(s, string(op)) {
			return op, true
		}
	}
	return Operation(s), false
}

// IsServed reports whether the endpoint implements the operation.
func (o Operation) IsServed() bool {
	return o == Explain || o == SearchRetrieve
}
