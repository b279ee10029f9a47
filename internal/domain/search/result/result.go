package result

import "github.com/zxpress/fcsgate/internal/domain/kwic"

// Extent type names used in resource headers.
const (
	ExtentMagazine = "magazine"
	ExtentIssue    = "issue"
	ExtentDate     = "date"
)

// Extent is a typed metadata facet of a record.
type Extent struct {
	Type  string
	Value string
}

// Record is a single hit mapped for rendering.
type Record struct {
	identifier string
	title      string
	url        string
	position   int
	snippets   []kwic.Snippet
	extents    []Extent
}

// New creates a record. Extents with empty values are dropped.
func New(identifier, title, url string, position int, snippets []kwic.Snippet, extents []Extent) Record {
	kept := make([]Extent, 0, len(extents))
	for _, e := range extents {
		if e.Value != "" {
			kept = append(kept, e)
		}
	}
	return Record{
		identifier: identifier, title: title, url: url,
		position: position, snippets: snippets, extents: kept,
	}
}

// Identifier returns the stable record identifier.
func (r *Record) Identifier() string { return r.identifier }

// Title returns the article title.
func (r *Record) Title() string { return r.title }

// URL returns the canonical article URL, if stored.
func (r *Record) URL() string { return r.url }

// Position returns the 1-based position in the result set.
func (r *Record) Position() int { return r.position }

// Snippets returns the KWIC snippets in document order.
func (r *Record) Snippets() []kwic.Snippet { return r.snippets }

// Extents returns the non-empty extents in declaration order.
func (r *Record) Extents() []Extent { return r.extents }

// Page is one window of a result set.
type Page struct {
	Records        []Record
	Total          int
	StartRecord    int
	MaximumRecords int
	// Query is the free text echoed back to the client.
	Query string
	// Version is the protocol version echoed back; empty echoes the response version.
	Version string
}
