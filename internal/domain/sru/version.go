// Package sru holds the protocol vocabulary of the SRU/FCS endpoint: protocol
// versions, diagnostics and the capability metadata served by explain.
package sru

import (
	"strings"
)

// Version is a supported SRU protocol generation.
type Version string

// Supported versions.
const (
	Version12 Version = "1.2"
	Version20 Version = "2.0"
)

// Latest is the only version accepted outside endpoint-description requests.
const Latest = Version20

var versionAliases = map[string]Version{
	"VERSION_2_0":     Version20,
	"SRU_VERSION_2_0": Version20,
	"V2":              Version20,
	"SRU2":            Version20,
	"2":               Version20,
	"2.0":             Version20,
	"VERSION_1_2":     Version12,
	"SRU_VERSION_1_2": Version12,
	"V1_2":            Version12,
	"1.2":             Version12,
	"1":               Version12,
}

// Negotiate canonicalizes a raw version parameter. Symbolic and numeric
// spellings are accepted; anything unrecognized yields the latest version.
func Negotiate(raw string) Version {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Latest
	}
	s = strings.ReplaceAll(s, "-", "_")
	if v, ok := versionAliases[s]; ok {
		return v
	}

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	switch {
	case strings.HasPrefix(digits, "2"):
		return Version20
	case strings.HasPrefix(digits, "1.2"), digits == "12":
		return Version12
	default:
		return Latest
	}
}

// String returns the dotted form used inside response documents.
func (v Version) String() string { return string(v) }

// Token returns the uppercase underscored form required in HTTP headers.
func (v Version) Token() string {
	if v == Version12 {
		return "VERSION_1_2"
	}
	return "VERSION_2_0"
}

// IsLatest reports whether v is the newest supported generation.
func (v Version) IsLatest() bool { return v == Latest }

// EnforceLatest returns an unsupported-version diagnostic for anything but the
// latest version. Endpoint-description requests bypass it.
func EnforceLatest(v Version) *Diagnostic {
	if v.IsLatest() {
		return nil
	}
	d := NewDiagnostic(CodeUnsupportedVersion, v.String())
	return &d
}
