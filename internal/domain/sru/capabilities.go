package sru

// Index is a searchable index advertised by explain.
type Index struct {
	Name  string
	Title string
}

// Field is a corpus field advertised in the endpoint description.
type Field struct {
	Name    string
	Type    string
	Stored  bool
	Indexed bool
}

// Resource is a searchable collection.
type Resource struct {
	PID       string
	Title     string
	Languages []string
}

// Capabilities is the process-wide, read-only metadata served by explain and
// endpoint-description requests.
type Capabilities struct {
	BaseURL        string
	Host           string
	Port           int
	Database       string
	Title          string
	Description    string
	Contact        string
	Operations     []string
	QueryLanguages []string
	DataViews      []string
	Indexes        []Index
	Fields         []Field
	Resources      []Resource
	// DefaultPageSize is used when a request omits maximumRecords.
	DefaultPageSize int
	MaxPageSize     int
}

// FCS capability identifiers.
const (
	CapabilityBasicSearch = "http://clarin.eu/fcs/capability/basic-search"
	DataViewKWIC          = "hits:kwic"
)
