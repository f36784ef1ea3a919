// Package urlparser is the translated URL parser under test.
//
// Input is read the way a C caller would see it: up to the first NUL byte.
package urlparser

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

// Schemes are the protocols a URL may start with. Kept separate from the
// reference table on purpose.
var schemes = [...]string{
	"afp", "cvs", "dict", "file", "ftp", "ftps", "git",
	"gopher", "http", "https", "imap", "irc", "ldap", "mailto",
	"news", "nntp", "pop", "rsync", "rtsp", "sftp", "smb",
	"ssh", "svn", "telnet", "ws", "wss",
}

// Data is a parsed URL. Absent components are Null.
type Data struct {
	Href     foreign.NullString
	Protocol foreign.NullString
	Host     foreign.NullString
	Auth     foreign.NullString
	Hostname foreign.NullString
	Pathname foreign.NullString
	Search   foreign.NullString
	Path     foreign.NullString
	Hash     foreign.NullString
	Query    foreign.NullString
	Port     foreign.NullString
}

// IsProtocol reports whether s is a known scheme.
func IsProtocol(s string) bool {
	for _, scheme := range schemes {
		if scheme == s {
			return true
		}
	}

	return false
}

// IsSSH reports whether s names an ssh-style scheme.
func IsSSH(s string) bool {
	return s == "ssh" || s == "git"
}

// Parse returns nil when url has no known scheme.
func Parse(url string) *Data {
	protocol := GetProtocol(url)
	if !protocol.Valid {
		return nil
	}

	return &Data{
		Href:     foreign.Some(url),
		Protocol: protocol,
		Auth:     GetAuth(url),
		Host:     GetHost(url),
		Hostname: GetHostname(url),
		Port:     GetPort(url),
		Path:     GetPath(url),
		Pathname: GetPathname(url),
		Search:   GetSearch(url),
		Query:    GetQuery(url),
		Hash:     GetHash(url),
	}
}

// authority returns the offset just past "://", or -1.
func authority(url string) int {
	sep := strings.Index(url, "://")
	if sep <= 0 {
		return -1
	}

	if !IsProtocol(url[:sep]) {
		return -1
	}

	return sep + 3
}

func authorityLen(rest string) int {
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		return i
	}

	return len(rest)
}

// host returns the authority without any user info, or false.
func host(url string) (string, bool) {
	start := authority(url)
	if start < 0 {
		return "", false
	}

	rest := url[start:]
	auth := rest[:authorityLen(rest)]

	if at := strings.IndexByte(auth, '@'); at >= 0 {
		return auth[at+1:], true
	}

	return auth, true
}

// path returns everything between the authority and '#', or false.
func path(url string) (string, bool) {
	start := authority(url)
	if start < 0 {
		return "", false
	}

	rest := url[start:]
	p := rest[authorityLen(rest):]

	if i := strings.IndexByte(p, '#'); i >= 0 {
		p = p[:i]
	}

	return p, true
}

// GetProtocol returns the scheme.
func GetProtocol(url string) foreign.NullString {
	start := authority(url)
	if start < 0 {
		return foreign.Null
	}

	return foreign.Some(url[:start-3])
}

// GetAuth returns the user info before '@'.
func GetAuth(url string) foreign.NullString {
	start := authority(url)
	if start < 0 {
		return foreign.Null
	}

	rest := url[start:]

	at := strings.IndexByte(rest[:authorityLen(rest)], '@')
	if at < 0 {
		return foreign.Null
	}

	return foreign.Some(rest[:at])
}

// GetHost returns hostname and port.
func GetHost(url string) foreign.NullString {
	h, ok := host(url)
	if !ok {
		return foreign.Null
	}

	return foreign.Some(h)
}

// GetHostname returns the host without its port.
func GetHostname(url string) foreign.NullString {
	h, ok := host(url)
	if !ok {
		return foreign.Null
	}

	if colon := strings.IndexByte(h, ':'); colon >= 0 {
		h = h[:colon]
	}

	return foreign.Some(h)
}

// GetPort returns what follows ':' in the host.
func GetPort(url string) foreign.NullString {
	h, ok := host(url)
	if !ok {
		return foreign.Null
	}

	colon := strings.IndexByte(h, ':')
	if colon < 0 {
		return foreign.Null
	}

	return foreign.Some(h[colon+1:])
}

// GetPath returns pathname and search.
func GetPath(url string) foreign.NullString {
	p, ok := path(url)
	if !ok || p == "" {
		return foreign.Null
	}

	return foreign.Some(p)
}

// GetPathname returns the path without its search.
func GetPathname(url string) foreign.NullString {
	p, ok := path(url)
	if !ok {
		return foreign.Null
	}

	if q := strings.IndexByte(p, '?'); q >= 0 {
		p = p[:q]
	}

	if p == "" {
		return foreign.Null
	}

	return foreign.Some(p)
}

// GetSearch returns the search including its leading '?'.
func GetSearch(url string) foreign.NullString {
	p, ok := path(url)
	if !ok {
		return foreign.Null
	}

	q := strings.IndexByte(p, '?')
	if q < 0 {
		return foreign.Null
	}

	return foreign.Some(p[q:])
}

// GetQuery returns the search without its leading '?'.
func GetQuery(url string) foreign.NullString {
	p, ok := path(url)
	if !ok {
		return foreign.Null
	}

	q := strings.IndexByte(p, '?')
	if q < 0 {
		return foreign.Null
	}

	return foreign.Some(p[q+1:])
}

// GetHash returns the fragment including its leading '#'.
func GetHash(url string) foreign.NullString {
	start := authority(url)
	if start < 0 {
		return foreign.Null
	}

	h := strings.IndexByte(url[start:], '#')
	if h < 0 {
		return foreign.Null
	}

	return foreign.Some(url[start+h:])
}

// Parser adapts the package functions to [api.URLParser].
type Parser struct{}

type handle struct {
	data *Data
}

func (h *handle) Href() foreign.NullString {
	return h.data.Href
}

func (h *handle) Field(f api.Field) foreign.NullString {
	d := h.data

	switch f {
	case api.Protocol:
		return d.Protocol
	case api.Host:
		return d.Host
	case api.Hostname:
		return d.Hostname
	case api.Path:
		return d.Path
	case api.Query:
		return d.Query
	case api.Hash:
		return d.Hash
	case api.Port:
		return d.Port
	case api.Auth:
		return d.Auth
	case api.Pathname:
		return d.Pathname
	case api.Search:
		return d.Search
	}

	panic(fmt.Sprintf("urlparser: unknown field %d", f))
}

// Parse parses the C view of s.
func (Parser) Parse(s foreign.CString) (api.URLHandle, bool) {
	d := Parse(s.String())
	if d == nil {
		return nil, false
	}

	return &handle{data: d}, true
}

// Free drops the handle. Freeing twice panics.
func (Parser) Free(h api.URLHandle) {
	hh, ok := h.(*handle)
	if !ok {
		panic(fmt.Sprintf("urlparser: Free of foreign handle %T", h))
	}

	if hh.data == nil {
		panic("urlparser: handle freed twice")
	}

	hh.data = nil
}

// Get calls the accessor for f. Nothing needs releasing.
func (Parser) Get(f api.Field, s foreign.CString) (foreign.NullString, func()) {
	url := s.String()

	switch f {
	case api.Protocol:
		return GetProtocol(url), nil
	case api.Host:
		return GetHost(url), nil
	case api.Hostname:
		return GetHostname(url), nil
	case api.Path:
		return GetPath(url), nil
	case api.Query:
		return GetQuery(url), nil
	case api.Hash:
		return GetHash(url), nil
	case api.Port:
		return GetPort(url), nil
	case api.Auth:
		return GetAuth(url), nil
	case api.Pathname:
		return GetPathname(url), nil
	case api.Search:
		return GetSearch(url), nil
	}

	panic(fmt.Sprintf("urlparser: unknown field %d", f))
}
