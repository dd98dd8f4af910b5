package goSSO

import (
	"net/http"
	"net/url"
)

// httpRequest adapts *http.Request to [Request]. The query string is parsed
// once at construction.
type httpRequest struct {
	header http.Header
	query  url.Values
}

// HTTPRequest wraps r for use with [Server.Attach] and
// [Server.StartBrokerSession].
func HTTPRequest(r *http.Request) Request {
	return httpRequest{
		header: r.Header,
		query:  r.URL.Query(),
	}
}

func (r httpRequest) Header(name string) string {
	return r.header.Get(name)
}

func (r httpRequest) QueryParam(name string) (string, bool) {
	if !r.query.Has(name) {
		return "", false
	}
	return r.query.Get(name), true
}
