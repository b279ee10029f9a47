package sruxml

import (
	"net/http"

	"github.com/zxpress/fcsgate/internal/domain/sru"
)

// Response header names.
const (
	HeaderSRUVersion  = "X-SRU-Version"
	HeaderContentType = "Content-Type"
	HeaderNoSniff     = "X-Content-Type-Options"
)

// ContentType returns the media type declaring the version token,
// e.g. "application/sru+xml;version=VERSION_2_0; charset=utf-8".
func ContentType(v sru.Version) string {
	return "application/sru+xml;version=" + v.Token() + "; charset=utf-8"
}

// SetHeaders sets the SRU response headers for version v.
func SetHeaders(h http.Header, v sru.Version) {
	h.Set(HeaderContentType, ContentType(v))
	h.Set(HeaderNoSniff, "nosniff")
	h.Set(HeaderSRUVersion, v.Token())
}
