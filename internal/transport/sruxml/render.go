// Package sruxml renders SRU/FCS response documents and headers.
package sruxml

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/zxpress/fcsgate/internal/domain/search/page"
	"github.com/zxpress/fcsgate/internal/domain/search/result"
	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// Record packing values.
const (
	escapingXML   = "xml"
	packingPacked = "packed"
)

// RenderCapabilities renders an explainResponse carrying the ZeeRex record
// and the FCS endpoint description.
func RenderCapabilities(meta sru.Capabilities, v sru.Version) ([]byte, error) {
	doc := explainResponse{
		NSSRU:   sruNamespace(v),
		NSZR:    NSZeeRex,
		NSED:    NSEndpoint,
		Version: v.String(),
		Record:  newRecord(v, NSZeeRex, recordData{Explain: zeeRex(meta, v)}, 0),
		Extra:   extraResponseData{Endpoint: endpointDescriptionOf(meta)},
	}
	return encode(doc)
}

// RenderResults renders a searchRetrieveResponse for one page of hits.
func RenderResults(p result.Page, v sru.Version) ([]byte, error) {
	doc := searchRetrieveResponse{
		NSSRU:           sruNamespace(v),
		NSFCS:           NSFCS,
		NSHits:          NSHits,
		Version:         v.String(),
		NumberOfRecords: p.Total,
		Records:         &records{Items: make([]record, 0, len(p.Records))},
		Echoed: &echoedRequest{
			Version:        cmp.Or(p.Version, v.String()),
			Query:          p.Query,
			StartRecord:    p.StartRecord,
			MaximumRecords: p.MaximumRecords,
		},
	}

	for i := range p.Records {
		r := &p.Records[i]
		data := recordData{Resource: resourceOf(r)}
		doc.Records.Items = append(doc.Records.Items, newRecord(v, NSFCS, data, r.Position()))
	}

	if next, ok := page.NextRecordPosition(p.StartRecord, p.MaximumRecords, p.Total); ok {
		doc.NextRecordPosition = next
	}

	return encode(doc)
}

// RenderDiagnostic renders a searchRetrieveResponse with no records and a
// single diagnostic.
func RenderDiagnostic(d sru.Diagnostic, v sru.Version) ([]byte, error) {
	doc := searchRetrieveResponse{
		NSSRU:           sruNamespace(v),
		NSDiag:          diagNamespace(v),
		Version:         v.String(),
		NumberOfRecords: 0,
		Diagnostics: &diagnostics{Items: []diagnostic{{
			URI:     d.URI(),
			Details: d.Details,
			Message: d.Message,
		}}},
	}
	return encode(doc)
}

// newRecord wraps data in a record envelope. SRU 2.0 splits the 1.2
// recordPacking into recordXMLEscaping and recordPacking.
func newRecord(v sru.Version, schema string, data recordData, position int) record {
	rec := record{Schema: schema, Data: data, Position: position}
	if v == sru.Version12 {
		rec.Packing = escapingXML
	} else {
		rec.XMLEscaping = escapingXML
		rec.Packing = packingPacked
	}
	return rec
}

func resourceOf(r *result.Record) *fcsResource {
	res := &fcsResource{
		PID: r.Identifier(),
		Ref: r.URL(),
		Header: resourceHeader{
			Title:      r.Title(),
			Identifier: r.Identifier(),
		},
		DataView: dataView{Type: sru.DataViewKWIC},
	}
	for _, e := range r.Extents() {
		res.Header.Extents = append(res.Header.Extents, extent{Type: e.Type, Value: e.Value})
	}
	for _, s := range r.Snippets() {
		res.DataView.KWIC = append(res.DataView.KWIC, kwicHit{Left: s.Left, Match: s.Match, Right: s.Right})
	}
	return res
}

func zeeRex(meta sru.Capabilities, v sru.Version) *zrExplain {
	ex := &zrExplain{
		ServerInfo: zrServerInfo{
			Protocol:  "SRU",
			Version:   v.String(),
			Transport: "http",
			Host:      meta.Host,
			Port:      meta.Port,
			Database:  meta.Database,
		},
		DatabaseInfo: zrDatabaseInfo{
			Title:   zrText{Lang: "en", Primary: true, Value: meta.Title},
			Contact: meta.Contact,
		},
		ConfigInfo: zrConfigInfo{
			Defaults: []zrSetting{{Type: "numberOfRecords", Value: meta.DefaultPageSize}},
			Settings: []zrSetting{{Type: "maximumRecords", Value: meta.MaxPageSize}},
		},
	}
	if meta.Description != "" {
		ex.DatabaseInfo.Description = &zrText{Lang: "en", Primary: true, Value: meta.Description}
	}
	if len(meta.Indexes) > 0 {
		ex.IndexInfo = indexInfo(meta.Indexes)
	}
	return ex
}

// indexInfo splits dotted index names into context set and index name.
// Unqualified names belong to the fcs set.
func indexInfo(indexes []sru.Index) *zrIndexInfo {
	info := &zrIndexInfo{}
	seen := make(map[string]bool)
	for _, idx := range indexes {
		set, name, ok := strings.Cut(idx.Name, ".")
		if !ok {
			set, name = "fcs", idx.Name
		}
		if !seen[set] {
			seen[set] = true
			id, known := cqlContextSets[set]
			if !known {
				id = NSFCS
			}
			info.Sets = append(info.Sets, zrSet{Identifier: id, Name: set})
		}
		title := idx.Title
		if title == "" {
			title = idx.Name
		}
		info.Indexes = append(info.Indexes, zrIndex{
			Search: true,
			Title:  zrText{Lang: "en", Primary: true, Value: title},
			Name:   zrName{Set: set, Value: name},
		})
	}
	return info
}

func endpointDescriptionOf(meta sru.Capabilities) endpointDescription {
	ed := endpointDescription{
		Version:        endpointDesc,
		Capabilities:   []string{sru.CapabilityBasicSearch},
		QueryLanguages: meta.QueryLanguages,
		Operations:     meta.Operations,
		MaxPageSize:    meta.MaxPageSize,
	}

	views := meta.DataViews
	if len(views) == 0 {
		views = []string{sru.DataViewKWIC}
	}
	for _, dv := range views {
		id, _, _ := strings.Cut(dv, ":")
		ed.DataViews = append(ed.DataViews, edDataView{ID: id, DeliveryPolicy: "send-by-default", Value: dv})
	}

	refs := make([]string, 0, len(views))
	for _, dv := range ed.DataViews {
		refs = append(refs, dv.ID)
	}
	for _, r := range meta.Resources {
		ed.Resources = append(ed.Resources, edResource{
			PID:       r.PID,
			Title:     edTitle{Lang: "en", Value: r.Title},
			Languages: r.Languages,
			DataViews: edRef{Ref: strings.Join(refs, " ")},
		})
	}

	for _, f := range meta.Fields {
		ed.Fields = append(ed.Fields, edField{Name: f.Name, Type: f.Type, Stored: f.Stored, Indexed: f.Indexed})
	}
	return ed
}

func encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode sru response: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode sru response: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
