// Package urlparser is the C reference URL parser, compiled through cgo.
//
// Every string the C code returns is malloc'd; the caller of Get owns it and
// frees it through the returned release func.
package urlparser

// #cgo CFLAGS: -O1 -g
// #include <stdlib.h>
// #include "url.h"
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/calvinalkan/diffuzz/pkg/api"
	"github.com/calvinalkan/diffuzz/pkg/foreign"
)

// Parser calls the C url_* functions.
type Parser struct{}

type handle struct {
	data *C.url_data_t
}

func (h *handle) Href() foreign.NullString {
	return goString(h.data.href)
}

func (h *handle) Field(f api.Field) foreign.NullString {
	d := h.data

	switch f {
	case api.Protocol:
		return goString(d.protocol)
	case api.Host:
		return goString(d.host)
	case api.Hostname:
		return goString(d.hostname)
	case api.Path:
		return goString(d.path)
	case api.Query:
		return goString(d.query)
	case api.Hash:
		return goString(d.hash)
	case api.Port:
		return goString(d.port)
	case api.Auth:
		return goString(d.auth)
	case api.Pathname:
		return goString(d.pathname)
	case api.Search:
		return goString(d.search)
	}

	panic(fmt.Sprintf("urlparser: unknown field %d", f))
}

// Parse calls url_parse. s must have passed Validate.
func (Parser) Parse(s foreign.CString) (api.URLHandle, bool) {
	data := C.c_url_parse((*C.char)(s.Ptr()))
	if data == nil {
		return nil, false
	}

	return &handle{data: data}, true
}

// Free calls url_free. Freeing a handle twice panics.
func (Parser) Free(h api.URLHandle) {
	ch, ok := h.(*handle)
	if !ok {
		panic(fmt.Sprintf("urlparser: Free of foreign handle %T", h))
	}

	if ch.data == nil {
		panic("urlparser: handle freed twice")
	}

	C.c_url_free(ch.data)
	ch.data = nil
}

// Get calls the url_get_* accessor for f.
func (Parser) Get(f api.Field, s foreign.CString) (foreign.NullString, func()) {
	p := get(f, (*C.char)(s.Ptr()))
	if p == nil {
		return foreign.Null, nil
	}

	return foreign.Some(C.GoString(p)), func() { C.free(unsafe.Pointer(p)) }
}

func get(f api.Field, url *C.char) *C.char {
	switch f {
	case api.Protocol:
		return C.c_url_get_protocol(url)
	case api.Host:
		return C.c_url_get_host(url)
	case api.Hostname:
		return C.c_url_get_hostname(url)
	case api.Path:
		return C.c_url_get_path(url)
	case api.Query:
		return C.c_url_get_query(url)
	case api.Hash:
		return C.c_url_get_hash(url)
	case api.Port:
		return C.c_url_get_port(url)
	case api.Auth:
		return C.c_url_get_auth(url)
	case api.Pathname:
		return C.c_url_get_pathname(url)
	case api.Search:
		return C.c_url_get_search(url)
	}

	panic(fmt.Sprintf("urlparser: unknown field %d", f))
}

func goString(p *C.char) foreign.NullString {
	if p == nil {
		return foreign.Null
	}

	return foreign.Some(C.GoString(p))
}
