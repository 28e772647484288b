package server

import (
	"context"
	"net/http"
	"strings"
)

// NotFoundPage is the page key unknown paths fall back to.
const NotFoundPage = "404"

// Page is what a page handler renders. Empty HTML means 404; otherwise
// Status, or 200 when Status is zero.
type Page struct {
	HTML   string
	Header http.Header
	Status int
}

type PageFunc func(ctx context.Context, rc *RequestContext) (Page, error)

// PageTable maps a trimmed path to its page. It must hold NotFoundPage.
type PageTable map[string]PageFunc

func (t PageTable) lookup(path string) PageFunc {
	if f, ok := t[path]; ok && f != nil {
		return f
	}
	return t[NotFoundPage]
}

// APIFunc handles one method of an API route and returns its response.
type APIFunc func(ctx context.Context, rc *RequestContext) Response

// APIBundle maps a lower case HTTP method to its handler.
type APIBundle map[string]APIFunc

// APITable maps the path after "api/" to a bundle.
type APITable map[string]APIBundle

// lookup finds the handler for a route and method. ok is false when the
// route itself is unknown; a nil func with ok true means the method is not
// served.
func (t APITable) lookup(route, method string) (f APIFunc, ok bool) {
	bundle, ok := t[route]
	if !ok {
		return nil, false
	}
	return bundle[strings.ToLower(method)], true
}

func (p Page) response() Response {
	status := p.Status
	if p.HTML == "" {
		status = http.StatusNotFound
	}
	return HTML(status, p.HTML, p.Header)
}
