package sruxml

import (
	"encoding/xml"

	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// XML namespaces.
const (
	NSSRU12      = "http://www.loc.gov/zing/srw/"
	NSSRU20      = "http://docs.oasis-open.org/ns/search-ws/sruResponse"
	NSDiag12     = "http://www.loc.gov/zing/srw/diagnostic/"
	NSDiag20     = "http://docs.oasis-open.org/ns/search-ws/diagnostic"
	NSFCS        = "http://clarin.eu/fcs/resource"
	NSHits       = "http://clarin.eu/fcs/dataview/hits"
	NSEndpoint   = "http://clarin.eu/fcs/endpoint-description"
	NSZeeRex     = "http://explain.z3950.org/dtd/2.0/"
	endpointDesc = 2
)

// cqlContextSets maps index-name prefixes to their context set identifiers.
var cqlContextSets = map[string]string{
	"cql": "info:srw/cql-context-set/1/cql-v1.2",
	"dc":  "info:srw/cql-context-set/1/dc-v1.1",
	"fcs": NSFCS,
}

func sruNamespace(v sru.Version) string {
	if v == sru.Version12 {
		return NSSRU12
	}
	return NSSRU20
}

func diagNamespace(v sru.Version) string {
	if v == sru.Version12 {
		return NSDiag12
	}
	return NSDiag20
}

// Element names carry their prefix literally; the matching xmlns
// attributes are set on the document root.

type searchRetrieveResponse struct {
	XMLName xml.Name `xml:"sru:searchRetrieveResponse"`
	NSSRU   string   `xml:"xmlns:sru,attr"`
	NSFCS   string   `xml:"xmlns:fcs,attr,omitempty"`
	NSHits  string   `xml:"xmlns:hits,attr,omitempty"`
	NSDiag  string   `xml:"xmlns:diag,attr,omitempty"`

	Version            string         `xml:"sru:version"`
	NumberOfRecords    int            `xml:"sru:numberOfRecords"`
	Records            *records       `xml:"sru:records,omitempty"`
	NextRecordPosition int            `xml:"sru:nextRecordPosition,omitempty"`
	Echoed             *echoedRequest `xml:"sru:echoedSearchRetrieveRequest,omitempty"`
	Diagnostics        *diagnostics   `xml:"sru:diagnostics,omitempty"`
}

type explainResponse struct {
	XMLName xml.Name `xml:"sru:explainResponse"`
	NSSRU   string   `xml:"xmlns:sru,attr"`
	NSZR    string   `xml:"xmlns:zr,attr"`
	NSED    string   `xml:"xmlns:ed,attr"`

	Version string            `xml:"sru:version"`
	Record  record            `xml:"sru:record"`
	Extra   extraResponseData `xml:"sru:extraResponseData"`
}

type records struct {
	Items []record `xml:"sru:record"`
}

type record struct {
	Schema      string     `xml:"sru:recordSchema"`
	XMLEscaping string     `xml:"sru:recordXMLEscaping,omitempty"`
	Packing     string     `xml:"sru:recordPacking"`
	Data        recordData `xml:"sru:recordData"`
	Position    int        `xml:"sru:recordPosition,omitempty"`
}

type recordData struct {
	Resource *fcsResource `xml:"fcs:Resource,omitempty"`
	Explain  *zrExplain   `xml:"zr:explain,omitempty"`
}

type echoedRequest struct {
	Version        string `xml:"sru:version"`
	Query          string `xml:"sru:query"`
	StartRecord    int    `xml:"sru:startRecord"`
	MaximumRecords int    `xml:"sru:maximumRecords"`
}

type diagnostics struct {
	Items []diagnostic `xml:"diag:diagnostic"`
}

type diagnostic struct {
	URI     string `xml:"diag:uri"`
	Details string `xml:"diag:details,omitempty"`
	Message string `xml:"diag:message,omitempty"`
}

// --- FCS resource ---

type fcsResource struct {
	PID      string         `xml:"pid,attr"`
	Ref      string         `xml:"ref,attr,omitempty"`
	Header   resourceHeader `xml:"fcs:ResourceHeader"`
	DataView dataView       `xml:"fcs:DataView"`
}

type resourceHeader struct {
	Title      string   `xml:"fcs:title"`
	Identifier string   `xml:"fcs:identifier"`
	Extents    []extent `xml:"fcs:extents>fcs:extent"`
}

type extent struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type dataView struct {
	Type string    `xml:"type,attr"`
	KWIC []kwicHit `xml:"hits:kwic"`
}

type kwicHit struct {
	Left  string `xml:"hits:leftContext"`
	Match string `xml:"hits:match"`
	Right string `xml:"hits:rightContext"`
}

// --- ZeeRex explain record ---

type zrExplain struct {
	ServerInfo   zrServerInfo   `xml:"zr:serverInfo"`
	DatabaseInfo zrDatabaseInfo `xml:"zr:databaseInfo"`
	IndexInfo    *zrIndexInfo   `xml:"zr:indexInfo,omitempty"`
	ConfigInfo   zrConfigInfo   `xml:"zr:configInfo"`
}

type zrServerInfo struct {
	Protocol  string `xml:"protocol,attr"`
	Version   string `xml:"version,attr"`
	Transport string `xml:"transport,attr"`
	Host      string `xml:"zr:host"`
	Port      int    `xml:"zr:port"`
	Database  string `xml:"zr:database"`
}

type zrDatabaseInfo struct {
	Title       zrText  `xml:"zr:title"`
	Description *zrText `xml:"zr:description,omitempty"`
	Contact     string  `xml:"zr:contact,omitempty"`
}

type zrText struct {
	Lang    string `xml:"lang,attr"`
	Primary bool   `xml:"primary,attr"`
	Value   string `xml:",chardata"`
}

type zrIndexInfo struct {
	Sets    []zrSet   `xml:"zr:set"`
	Indexes []zrIndex `xml:"zr:index"`
}

type zrSet struct {
	Identifier string `xml:"identifier,attr"`
	Name       string `xml:"name,attr"`
}

type zrIndex struct {
	Search bool   `xml:"search,attr"`
	Title  zrText `xml:"zr:title"`
	Name   zrName `xml:"zr:map>zr:name"`
}

type zrName struct {
	Set   string `xml:"set,attr"`
	Value string `xml:",chardata"`
}

type zrConfigInfo struct {
	Defaults []zrSetting `xml:"zr:default"`
	Settings []zrSetting `xml:"zr:setting"`
}

type zrSetting struct {
	Type  string `xml:"type,attr"`
	Value int    `xml:",chardata"`
}

// --- FCS endpoint description ---

type extraResponseData struct {
	Endpoint endpointDescription `xml:"ed:EndpointDescription"`
}

type endpointDescription struct {
	Version        int          `xml:"version,attr"`
	Capabilities   []string     `xml:"ed:Capabilities>ed:Capability"`
	DataViews      []edDataView `xml:"ed:SupportedDataViews>ed:SupportedDataView"`
	Resources      []edResource `xml:"ed:Resources>ed:Resource"`
	QueryLanguages []string     `xml:"ed:SupportedQueryLanguages>ed:QueryLanguage"`
	Operations     []string     `xml:"ed:SupportedOperations>ed:Operation"`
	Fields         []edField    `xml:"ed:Fields>ed:Field"`
	MaxPageSize    int          `xml:"ed:MaxPageSize,omitempty"`
}

type edDataView struct {
	ID             string `xml:"id,attr"`
	DeliveryPolicy string `xml:"delivery-policy,attr"`
	Value          string `xml:",chardata"`
}

type edResource struct {
	PID       string   `xml:"pid,attr"`
	Title     edTitle  `xml:"ed:Title"`
	Languages []string `xml:"ed:Languages>ed:Language"`
	DataViews edRef    `xml:"ed:AvailableDataViews"`
}

type edTitle struct {
	Lang  string `xml:"xml:lang,attr"`
	Value string `xml:",chardata"`
}

type edRef struct {
	Ref string `xml:"ref,attr"`
}

type edField struct {
	Name    string `xml:"ed:name"`
	Type    string `xml:"ed:type"`
	Stored  bool   `xml:"ed:stored"`
	Indexed bool   `xml:"ed:indexed"`
}
